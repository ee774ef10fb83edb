package ingestion

import (
	"errors"

	"github.com/poiesic/agentspace/chunk"
)

var (
	// ErrAgentRepositoryRequired is returned when an agent repository is not provided.
	ErrAgentRepositoryRequired = errors.New("agent repository required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingCountMismatch is returned when the embedding service
	// returns a different number of vectors than chunks sent. Nothing is
	// written when this happens.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrNoChunksGenerated is returned when a document's extracted text
	// produces no chunks, typically because the document is empty.
	ErrNoChunksGenerated = chunk.ErrNoChunksGenerated
)
