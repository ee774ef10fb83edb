// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"context"

	"github.com/poiesic/agentspace/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// VectorStore holds per-agent collections of embedded text chunks.
// A collection is keyed by the owning agent's identifier. Implementations
// must support concurrent readers; writers to the same collection are
// serialized by the ingestion pipeline, not the store.
type VectorStore interface {
	Repository

	// EnsureCollection creates the collection for the given agent if it
	// does not exist. Idempotent.
	EnsureCollection(ctx context.Context, key core.AgentID) error

	// Upsert writes records into the agent's collection, keyed by record ID.
	// Re-upserting an existing ID overwrites it. All vectors in one
	// collection must share a dimensionality; a mismatch fails with
	// ErrDimensionMismatch and writes nothing.
	Upsert(ctx context.Context, key core.AgentID, records ...*core.VectorRecord) error

	// Nearest returns up to topK records from the agent's collection ranked
	// by descending similarity to the query vector. Equal inputs produce
	// equal rankings; score ties are broken by record ID.
	Nearest(ctx context.Context, key core.AgentID, queryVector []float32, topK int) ([]*core.SearchResult, error)

	// ListRecords returns every record in the agent's collection in ID order.
	ListRecords(ctx context.Context, key core.AgentID) ([]*core.VectorRecord, error)

	// ListCollections returns the keys of all existing collections.
	ListCollections(ctx context.Context) ([]core.AgentID, error)

	// DeleteByFile removes every record sourced from the named document.
	// Removing a document leaves no orphaned vectors behind.
	DeleteByFile(ctx context.Context, key core.AgentID, fileName string) error

	// DeleteCollection removes the collection and all of its records.
	DeleteCollection(ctx context.Context, key core.AgentID) error
}

// AgentRepository provides operations for managing agent records and the
// knowledge documents they own.
type AgentRepository interface {
	Repository

	// AddAgent adds an agent to storage. A missing ID is generated.
	// Sets InsertedAt/UpdatedAt timestamps.
	// Returns ErrDuplicateKey if the (case-insensitive) name is taken.
	AddAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error)

	// UpdateAgent updates an existing agent.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the agent doesn't exist.
	UpdateAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error)

	// DeleteAgent removes an agent and its stored documents.
	// Returns ErrNotFound if the agent doesn't exist.
	DeleteAgent(ctx context.Context, id core.AgentID) error

	// GetAgent retrieves a single agent by ID.
	// Returns ErrNotFound if the agent doesn't exist.
	GetAgent(ctx context.Context, id core.AgentID) (*core.Agent, error)

	// FindAgentByName finds an agent by name, case-insensitively.
	// Returns ErrNotFound if no matching agent exists.
	FindAgentByName(ctx context.Context, name string) (*core.Agent, error)

	// ListAgents retrieves all agents ordered by ID.
	ListAgents(ctx context.Context) ([]*core.Agent, error)

	// AddDocument stores an uploaded document under its owning agent,
	// replacing any previous document with the same file name.
	AddDocument(ctx context.Context, id core.AgentID, doc *core.KnowledgeDocument) error

	// GetDocument retrieves one of an agent's documents by file name.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.AgentID, fileName string) (*core.KnowledgeDocument, error)

	// ListDocuments retrieves all of an agent's documents ordered by file name.
	ListDocuments(ctx context.Context, id core.AgentID) ([]*core.KnowledgeDocument, error)

	// DeleteDocument removes one of an agent's documents by file name.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.AgentID, fileName string) error
}

// WorkspaceRepository provides operations for managing workspaces.
type WorkspaceRepository interface {
	Repository

	// AddWorkspace adds a workspace to storage. A missing ID is generated.
	// Returns ErrDuplicateKey if the (case-insensitive) name is taken.
	AddWorkspace(ctx context.Context, workspace *core.Workspace) (*core.Workspace, error)

	// UpdateWorkspace updates an existing workspace.
	// Returns ErrNotFound if the workspace doesn't exist.
	UpdateWorkspace(ctx context.Context, workspace *core.Workspace) (*core.Workspace, error)

	// DeleteWorkspace removes a workspace. Member agents are not deleted.
	// Returns ErrNotFound if the workspace doesn't exist.
	DeleteWorkspace(ctx context.Context, id core.WorkspaceID) error

	// GetWorkspace retrieves a single workspace by ID.
	// Returns ErrNotFound if the workspace doesn't exist.
	GetWorkspace(ctx context.Context, id core.WorkspaceID) (*core.Workspace, error)

	// FindWorkspaceByName finds a workspace by name, case-insensitively.
	// Returns ErrNotFound if no matching workspace exists.
	FindWorkspaceByName(ctx context.Context, name string) (*core.Workspace, error)

	// ListWorkspaces retrieves all workspaces ordered by ID.
	ListWorkspaces(ctx context.Context) ([]*core.Workspace, error)

	// AssignAgent adds an agent to a workspace's member list. Idempotent.
	AssignAgent(ctx context.Context, id core.WorkspaceID, agentID core.AgentID) error

	// UnassignAgent removes an agent from a workspace's member list.
	// Removing a non-member is a no-op.
	UnassignAgent(ctx context.Context, id core.WorkspaceID, agentID core.AgentID) error
}
