package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

// BatchProcessor re-embeds batches of vector records for one collection.
type BatchProcessor struct {
	vectors        storage.VectorStore
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorStore, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of records and writes them back to the
// collection. The store normalizes vectors on write, so re-embedded
// records stay compatible with cosine similarity search.
func (bp *BatchProcessor) Process(ctx context.Context, agentID core.AgentID, records []*core.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	for i := range records {
		records[i].Vector = embeddings[i]
	}

	if err := bp.vectors.Upsert(ctx, agentID, records...); err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}

	return nil
}
