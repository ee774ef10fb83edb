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


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds every record of an agent's collection, typically
// after switching embedding models.
type Reindexer struct {
	vectors   storage.VectorStore
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(vectors storage.VectorStore, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		vectors:   vectors,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run re-embeds one agent's collection.
//
// The collection is read fully, dropped, and rebuilt batch by batch so
// that a model with a different dimensionality can replace the old one.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context, agentID core.AgentID) error {
	records, err := r.vectors.ListRecords(ctx, agentID)
	if err != nil {
		return fmt.Errorf("failed to read collection: %w", err)
	}

	total := len(records)
	if total == 0 {
		fmt.Fprintf(r.progress, "No records found for agent %s (0 records)\n", agentID)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d records (batch size: %d)\n",
		total, r.config.BatchSize)

	// Dropping the collection unpins its dimensionality; the first
	// re-upserted batch pins the new one.
	if err := r.vectors.DeleteCollection(ctx, agentID); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = forEachBatch(records, r.config.BatchSize, func(batch []*core.VectorRecord) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.processor.Process(ctx, agentID, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d records in %v (%.1f records/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// RunAll re-embeds every collection in the store.
func (r *Reindexer) RunAll(ctx context.Context) error {
	collections, err := r.vectors.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, agentID := range collections {
		if err := r.Run(ctx, agentID); err != nil {
			return fmt.Errorf("agent %s: %w", agentID, err)
		}
	}
	return nil
}
