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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/chunk"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/extract"
	"github.com/poiesic/agentspace/storage"
)

// Pipeline orchestrates the ingestion of knowledge documents.
// It manages extraction, chunking, batch embedding, and storage writes.
type Pipeline struct {
	agents       storage.AgentRepository
	vectors      storage.VectorStore
	embedder     ai.Embedder
	pool         *ants.Pool
	maxChunkSize int
	logger       *slog.Logger

	mu    sync.Mutex
	locks map[core.AgentID]*sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithMaxChunkSize sets the chunk size bound used when splitting text.
// Default is chunk.DefaultMaxChunkSize.
func WithMaxChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return chunk.ErrInvalidChunkSize
		}
		p.maxChunkSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	agents storage.AgentRepository,
	vectors storage.VectorStore,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if agents == nil {
		return nil, ErrAgentRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		agents:       agents,
		vectors:      vectors,
		embedder:     embedder,
		pool:         pool,
		maxChunkSize: chunk.DefaultMaxChunkSize,
		logger:       slog.Default().With("component", "ingestion"),
		locks:        make(map[core.AgentID]*sync.Mutex),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest processes one document for an agent and returns the number of
// vector records written.
//
// The document's text is extracted, split into chunks, embedded in a single
// batch, and written to the agent's collection. Records from a previous
// upload of the same file name are replaced. If the embedding service
// returns a vector count different from the chunk count, the document is
// rejected with ErrEmbeddingCountMismatch and nothing is written.
//
// A document whose extraction yields no text is skipped without error and
// without writes. A successful ingest marks the agent as having knowledge.
func (p *Pipeline) Ingest(ctx context.Context, agentID core.AgentID, doc *core.KnowledgeDocument) (int, error) {
	agent, err := p.agents.GetAgent(ctx, agentID)
	if err != nil {
		return 0, err
	}

	text, err := extract.Text(*doc)
	if err != nil {
		return 0, fmt.Errorf("extracting %s: %w", doc.FileName, err)
	}
	if text == "" {
		// Nothing to index. Not an error: empty uploads are valid.
		p.logger.Info("skipped empty document", "agent", agentID, "file", doc.FileName)
		return 0, nil
	}

	chunks, err := chunk.Split(text, p.maxChunkSize, doc.FileName)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%s: %w", doc.FileName, ErrNoChunksGenerated)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding %s: %w", doc.FileName, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%s: sent %d chunks, got %d vectors: %w",
			doc.FileName, len(chunks), len(vectors), ErrEmbeddingCountMismatch)
	}

	now := time.Now().UTC()
	records := make([]*core.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = &core.VectorRecord{
			Id:          core.RecordID(agentID, doc.FileName, c.SequenceIndex),
			FileName:    doc.FileName,
			Vector:      vectors[i],
			Text:        c.Text,
			Description: c.SourceDescription,
			InsertedAt:  now,
		}
	}

	// Writes to one agent's collection happen one document at a time
	lock := p.agentLock(agentID)
	lock.Lock()
	defer lock.Unlock()

	if err := p.vectors.DeleteByFile(ctx, agentID, doc.FileName); err != nil {
		return 0, err
	}
	if err := p.vectors.Upsert(ctx, agentID, records...); err != nil {
		return 0, err
	}
	if err := p.agents.AddDocument(ctx, agentID, doc); err != nil {
		return 0, err
	}
	if !agent.Knowledge {
		agent.Knowledge = true
		if _, err := p.agents.UpdateAgent(ctx, agent); err != nil {
			return 0, err
		}
	}

	p.logger.Info("ingested document",
		"agent", agentID, "file", doc.FileName, "chunks", len(records))

	return len(records), nil
}

// IngestBatch processes multiple documents for an agent concurrently.
// Each document succeeds or fails on its own; the returned error joins
// the failures, if any. The returned count covers successful documents.
func (p *Pipeline) IngestBatch(ctx context.Context, agentID core.AgentID, docs []*core.KnowledgeDocument) (int, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
		errs  []error
	)

	for _, doc := range docs {
		doc := doc
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			n, err := p.Ingest(ctx, agentID, doc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			total += n
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}
	wg.Wait()

	return total, errors.Join(errs...)
}

// RemoveDocument deletes a document and every vector record it produced.
// No orphaned vectors remain after removal.
func (p *Pipeline) RemoveDocument(ctx context.Context, agentID core.AgentID, fileName string) error {
	lock := p.agentLock(agentID)
	lock.Lock()
	defer lock.Unlock()

	if err := p.vectors.DeleteByFile(ctx, agentID, fileName); err != nil {
		return err
	}
	if err := p.agents.DeleteDocument(ctx, agentID, fileName); err != nil {
		return err
	}

	// The knowledge flag tracks whether any documents remain.
	docs, err := p.agents.ListDocuments(ctx, agentID)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		agent, err := p.agents.GetAgent(ctx, agentID)
		if err != nil {
			return err
		}
		if agent.Knowledge {
			agent.Knowledge = false
			if _, err := p.agents.UpdateAgent(ctx, agent); err != nil {
				return err
			}
		}
	}

	p.logger.Info("removed document", "agent", agentID, "file", fileName)
	return nil
}

// RemoveAgent deletes an agent along with its documents and collection.
func (p *Pipeline) RemoveAgent(ctx context.Context, agentID core.AgentID) error {
	lock := p.agentLock(agentID)
	lock.Lock()
	defer lock.Unlock()

	if err := p.vectors.DeleteCollection(ctx, agentID); err != nil {
		return err
	}
	if err := p.agents.DeleteAgent(ctx, agentID); err != nil {
		return err
	}

	p.logger.Info("removed agent", "agent", agentID)
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// agentLock returns the mutex serializing writes for one agent.
func (p *Pipeline) agentLock(agentID core.AgentID) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[agentID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[agentID] = lock
	}
	return lock
}
