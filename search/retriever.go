package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

// DefaultTopK is the number of hits requested when the caller does not
// choose a limit.
const DefaultTopK = 5

// Retriever performs semantic retrieval over an agent's knowledge collection.
type Retriever struct {
	vectors  storage.VectorStore
	embedder ai.Embedder
	topK     int
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets the number of hits retrieved per query.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(r *Retriever) error {
		if topK < 1 {
			return ErrInvalidArgument
		}
		r.topK = topK
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(
	vectors storage.VectorStore,
	embedder ai.Embedder,
	opts ...Option,
) (*Retriever, error) {
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		vectors:  vectors,
		embedder: embedder,
		topK:     DefaultTopK,
		logger:   slog.Default().With("component", "search"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve embeds the query and returns a context string assembled from the
// best-matching chunks of the agent's knowledge.
func (r *Retriever) Retrieve(ctx context.Context, agentID core.AgentID, query string) (string, error) {
	return r.RetrieveWithMonitor(ctx, agentID, query, nil)
}

// RetrieveWithMonitor performs retrieval with monitoring. The monitor
// receives callbacks at each stage of the retrieval process.
//
// The best topK chunks are ranked by descending cosine similarity and joined
// with blank lines, in rank order. Hits with empty text are dropped. An
// agent with no knowledge yields an empty string, which callers treat as
// "no relevant knowledge". An empty query or agent ID is rejected with
// ErrInvalidArgument.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, agentID core.AgentID, query string, monitor RetrievalMonitor) (string, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(query) == "" || agentID == "" {
		return "", ErrInvalidArgument
	}

	monitor.Start(agentID, query)

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return "", err
	}
	monitor.AfterEmbedding(embedding)

	hits, err := r.vectors.Nearest(ctx, agentID, embedding, r.topK)
	if err != nil {
		r.logger.Error("error querying for similar chunks", "agent", agentID, "err", err)
		return "", err
	}
	monitor.AfterNearest(hits)

	// Join surviving hits in rank order
	parts := make([]string, 0, len(hits))
	kept := make([]*core.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Record == nil || hit.Record.Text == "" {
			if hit.Record != nil {
				monitor.DroppedEmptyHit(hit.Record)
			}
			continue
		}
		parts = append(parts, hit.Record.Text)
		kept = append(kept, hit)
	}

	result := strings.Join(parts, "\n\n")
	monitor.Finish(kept, result)

	return result, nil
}
