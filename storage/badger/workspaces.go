package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

// WorkspaceRepository implements storage.WorkspaceRepository for BadgerDB.
type WorkspaceRepository struct {
	backend *Backend
}

var _ storage.WorkspaceRepository = (*WorkspaceRepository)(nil)

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository(backend *Backend) (*WorkspaceRepository, error) {
	return &WorkspaceRepository{
		backend: backend,
	}, nil
}

// Close releases resources. WorkspaceRepository has no resources to release.
func (r *WorkspaceRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *WorkspaceRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddWorkspace adds a workspace to storage. A missing ID is generated.
func (r *WorkspaceRepository) AddWorkspace(ctx context.Context, workspace *core.Workspace) (*core.Workspace, error) {
	if err := core.ValidateWorkspace(workspace); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nameKey := makeWorkspaceNameKey(workspace.Name)
		if _, err := tx.Get(nameKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if workspace.ID == "" {
			workspace.ID = core.NewWorkspaceID()
		}

		workspace.InsertedAt = time.Now().UTC()
		workspace.UpdatedAt = workspace.InsertedAt

		key := makeWorkspaceKey(workspace.ID)
		if err := tx.Set(key, storage.MarshalWorkspace(workspace)); err != nil {
			return err
		}
		if err := tx.Set(nameKey, []byte(workspace.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return workspace, err
}

// UpdateWorkspace updates an existing workspace.
func (r *WorkspaceRepository) UpdateWorkspace(ctx context.Context, workspace *core.Workspace) (*core.Workspace, error) {
	if err := core.ValidateWorkspace(workspace); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeWorkspaceKey(workspace.ID)

		old, err := readWorkspace(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if !strings.EqualFold(old.Name, workspace.Name) {
			newNameKey := makeWorkspaceNameKey(workspace.Name)
			if _, err := tx.Get(newNameKey); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			if err := tx.Delete(makeWorkspaceNameKey(old.Name)); err != nil {
				return err
			}
			if err := tx.Set(newNameKey, []byte(workspace.ID)); err != nil {
				return err
			}
		}

		workspace.InsertedAt = old.InsertedAt
		workspace.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalWorkspace(workspace)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return workspace, err
}

// DeleteWorkspace removes a workspace. Member agents are not deleted.
func (r *WorkspaceRepository) DeleteWorkspace(ctx context.Context, id core.WorkspaceID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeWorkspaceKey(id)

		workspace, err := readWorkspace(tx, key)
		if err != nil {
			return err
		}
		if workspace == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeWorkspaceNameKey(workspace.Name)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetWorkspace retrieves a single workspace by ID.
func (r *WorkspaceRepository) GetWorkspace(ctx context.Context, id core.WorkspaceID) (*core.Workspace, error) {
	var result *core.Workspace
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readWorkspace(tx, makeWorkspaceKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindWorkspaceByName finds a workspace by name, case-insensitively.
func (r *WorkspaceRepository) FindWorkspaceByName(ctx context.Context, name string) (*core.Workspace, error) {
	var result *core.Workspace
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeWorkspaceNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var workspaceID core.WorkspaceID
		err = item.Value(func(val []byte) error {
			workspaceID = core.WorkspaceID(val)
			return nil
		})
		if err != nil {
			return err
		}

		result, err = readWorkspace(tx, makeWorkspaceKey(workspaceID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListWorkspaces retrieves all workspaces ordered by ID.
func (r *WorkspaceRepository) ListWorkspaces(ctx context.Context) ([]*core.Workspace, error) {
	var results []*core.Workspace
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(workspaceRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var workspace *core.Workspace
			err := iter.Item().Value(func(val []byte) error {
				var err error
				workspace, err = storage.UnmarshalWorkspace(val)
				return err
			})
			if err != nil {
				return err
			}
			if workspace != nil {
				results = append(results, workspace)
			}
		}
		return nil
	}, false)

	return results, err
}

// AssignAgent adds an agent to a workspace's member list. Idempotent.
func (r *WorkspaceRepository) AssignAgent(ctx context.Context, id core.WorkspaceID, agentID core.AgentID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeWorkspaceKey(id)

		workspace, err := readWorkspace(tx, key)
		if err != nil {
			return err
		}
		if workspace == nil {
			return storage.ErrNotFound
		}

		if slices.Contains(workspace.AgentIDs, agentID) {
			return nil
		}
		workspace.AgentIDs = append(workspace.AgentIDs, agentID)
		workspace.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalWorkspace(workspace)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// UnassignAgent removes an agent from a workspace's member list.
func (r *WorkspaceRepository) UnassignAgent(ctx context.Context, id core.WorkspaceID, agentID core.AgentID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeWorkspaceKey(id)

		workspace, err := readWorkspace(tx, key)
		if err != nil {
			return err
		}
		if workspace == nil {
			return storage.ErrNotFound
		}

		idx := slices.Index(workspace.AgentIDs, agentID)
		if idx < 0 {
			return nil
		}
		workspace.AgentIDs = slices.Delete(workspace.AgentIDs, idx, idx+1)
		workspace.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalWorkspace(workspace)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readWorkspace reads a workspace from the transaction.
func readWorkspace(tx *badger.Txn, key []byte) (*core.Workspace, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var workspace *core.Workspace
	err = item.Value(func(val []byte) error {
		var err error
		workspace, err = storage.UnmarshalWorkspace(val)
		return err
	})
	return workspace, err
}
