package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

// AgentRepository implements storage.AgentRepository for BadgerDB.
type AgentRepository struct {
	backend *Backend
}

var _ storage.AgentRepository = (*AgentRepository)(nil)

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(backend *Backend) (*AgentRepository, error) {
	return &AgentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. AgentRepository has no resources to release.
func (r *AgentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *AgentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAgent adds an agent to storage. A missing ID is generated.
func (r *AgentRepository) AddAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error) {
	if err := core.ValidateAgent(agent); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Reject a taken name before writing anything
		nameKey := makeAgentNameKey(agent.Name)
		if _, err := tx.Get(nameKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if agent.ID == "" {
			agent.ID = core.NewAgentID()
		}

		// Set timestamps
		agent.InsertedAt = time.Now().UTC()
		agent.UpdatedAt = agent.InsertedAt

		// Store primary record
		key := makeAgentKey(agent.ID)
		if err := tx.Set(key, storage.MarshalAgent(agent)); err != nil {
			return err
		}

		// Store name index
		if err := tx.Set(nameKey, []byte(agent.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return agent, err
}

// UpdateAgent updates an existing agent.
func (r *AgentRepository) UpdateAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error) {
	if err := core.ValidateAgent(agent); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAgentKey(agent.ID)

		// Read old agent to detect changes
		old, err := readAgent(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		// Update name index if the name changed
		if !strings.EqualFold(old.Name, agent.Name) {
			newNameKey := makeAgentNameKey(agent.Name)
			if _, err := tx.Get(newNameKey); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			if err := tx.Delete(makeAgentNameKey(old.Name)); err != nil {
				return err
			}
			if err := tx.Set(newNameKey, []byte(agent.ID)); err != nil {
				return err
			}
		}

		// Update timestamp
		agent.InsertedAt = old.InsertedAt
		agent.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalAgent(agent)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return agent, err
}

// DeleteAgent removes an agent and its stored documents.
func (r *AgentRepository) DeleteAgent(ctx context.Context, id core.AgentID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAgentKey(id)

		// Read agent to get metadata for index cleanup
		agent, err := readAgent(tx, key)
		if err != nil {
			return err
		}
		if agent == nil {
			return storage.ErrNotFound
		}

		// Delete from name index
		if err := tx.Delete(makeAgentNameKey(agent.Name)); err != nil {
			return err
		}

		// Delete stored documents
		docKeys, err := collectKeys(tx, makeDocumentScanPrefix(id))
		if err != nil {
			return err
		}
		for _, docKey := range docKeys {
			if err := tx.Delete(docKey); err != nil {
				return err
			}
		}

		// Delete primary record
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetAgent retrieves a single agent by ID.
func (r *AgentRepository) GetAgent(ctx context.Context, id core.AgentID) (*core.Agent, error) {
	var result *core.Agent
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readAgent(tx, makeAgentKey(id))
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

// FindAgentByName finds an agent by name, case-insensitively.
func (r *AgentRepository) FindAgentByName(ctx context.Context, name string) (*core.Agent, error) {
	var result *core.Agent
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Look up ID from name index
		item, err := tx.Get(makeAgentNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var agentID core.AgentID
		err = item.Value(func(val []byte) error {
			agentID = core.AgentID(val)
			return nil
		})
		if err != nil {
			return err
		}

		// Look up full agent
		result, err = readAgent(tx, makeAgentKey(agentID))
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

// ListAgents retrieves all agents ordered by ID.
func (r *AgentRepository) ListAgents(ctx context.Context) ([]*core.Agent, error) {
	var results []*core.Agent
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(agentRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var agent *core.Agent
			err := iter.Item().Value(func(val []byte) error {
				var err error
				agent, err = storage.UnmarshalAgent(val)
				return err
			})
			if err != nil {
				return err
			}
			if agent != nil {
				results = append(results, agent)
			}
		}
		return nil
	}, false)

	return results, err
}

// AddDocument stores an uploaded document under its owning agent,
// replacing any previous document with the same file name.
func (r *AgentRepository) AddDocument(ctx context.Context, id core.AgentID, doc *core.KnowledgeDocument) error {
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.SizeBytes == 0 {
		doc.SizeBytes = int64(len(doc.RawBytes))
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		agent, err := readAgent(tx, makeAgentKey(id))
		if err != nil {
			return err
		}
		if agent == nil {
			return storage.ErrNotFound
		}

		key := makeDocumentKey(id, doc.FileName)
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves one of an agent's documents by file name.
func (r *AgentRepository) GetDocument(ctx context.Context, id core.AgentID, fileName string) (*core.KnowledgeDocument, error) {
	var result *core.KnowledgeDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id, fileName))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalDocument(val)
			return err
		})
	}, false)
	return result, err
}

// ListDocuments retrieves all of an agent's documents ordered by file name.
func (r *AgentRepository) ListDocuments(ctx context.Context, id core.AgentID) ([]*core.KnowledgeDocument, error) {
	var results []*core.KnowledgeDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentScanPrefix(id)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.KnowledgeDocument
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteDocument removes one of an agent's documents by file name.
func (r *AgentRepository) DeleteDocument(ctx context.Context, id core.AgentID, fileName string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id, fileName)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readAgent reads an agent from the transaction.
func readAgent(tx *badger.Txn, key []byte) (*core.Agent, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var agent *core.Agent
	err = item.Value(func(val []byte) error {
		var err error
		agent, err = storage.UnmarshalAgent(val)
		return err
	})
	return agent, err
}
