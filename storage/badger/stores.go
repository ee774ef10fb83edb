package badger

import "github.com/poiesic/agentspace/storage"

// Stores bundles the repositories backed by one BadgerDB instance.
type Stores struct {
	Agents     storage.AgentRepository
	Workspaces storage.WorkspaceRepository
	Vectors    storage.VectorStore

	backend *Backend
}

// NewStores opens a BadgerDB database at the given path and creates the
// repositories on top of it. Caller must Close when done.
func NewStores(filePath string) (*Stores, error) {
	return newStores(filePath, false)
}

func newStores(filePath string, inMemory bool) (*Stores, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	agents, err := NewAgentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	workspaces, err := NewWorkspaceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	vectors, err := NewVectorStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Stores{
		Agents:     agents,
		Workspaces: workspaces,
		Vectors:    vectors,
		backend:    backend,
	}, nil
}

// Close closes the underlying database.
func (s *Stores) Close() error {
	return s.backend.Close()
}
