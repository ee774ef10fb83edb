package search

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/agentspace/ai/mock"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRetriever(t *testing.T, opts ...Option) (*Retriever, *badger.Stores, *mock.MockEmbedder) {
	t.Helper()

	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	embedder := mock.NewMockEmbedder()
	retriever, err := NewRetriever(stores.Vectors, embedder, opts...)
	require.NoError(t, err)

	return retriever, stores, embedder
}

func storeChunk(t *testing.T, stores *badger.Stores, agentID core.AgentID, fileName string, seq int, vector []float32, text string) {
	t.Helper()
	err := stores.Vectors.Upsert(context.Background(), agentID, &core.VectorRecord{
		Id:         core.RecordID(agentID, fileName, seq),
		FileName:   fileName,
		Vector:     vector,
		Text:       text,
		InsertedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestRetrieveRankOrder(t *testing.T) {
	retriever, stores, embedder := setupRetriever(t)
	agentID := core.NewAgentID()

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	storeChunk(t, stores, agentID, "doc.txt", 0, []float32{0, 1, 0}, "orthogonal")
	storeChunk(t, stores, agentID, "doc.txt", 1, []float32{1, 0, 0}, "exact match")
	storeChunk(t, stores, agentID, "doc.txt", 2, []float32{1, 1, 0}, "partial match")

	result, err := retriever.Retrieve(context.Background(), agentID, "anything")
	require.NoError(t, err)

	parts := strings.Split(result, "\n\n")
	require.Len(t, parts, 3)
	assert.Equal(t, "exact match", parts[0])
	assert.Equal(t, "partial match", parts[1])
	assert.Equal(t, "orthogonal", parts[2])
}

func TestRetrieveInvalidArguments(t *testing.T) {
	retriever, _, _ := setupRetriever(t)
	ctx := context.Background()

	_, err := retriever.Retrieve(ctx, core.NewAgentID(), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = retriever.Retrieve(ctx, core.NewAgentID(), "   ")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = retriever.Retrieve(ctx, "", "query")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRetrieveNoKnowledge(t *testing.T) {
	retriever, _, _ := setupRetriever(t)

	result, err := retriever.Retrieve(context.Background(), core.NewAgentID(), "query")
	require.NoError(t, err)
	assert.Equal(t, "", result)
}

func TestRetrieveDropsEmptyHits(t *testing.T) {
	retriever, stores, embedder := setupRetriever(t)
	agentID := core.NewAgentID()

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	storeChunk(t, stores, agentID, "doc.txt", 0, []float32{1, 0}, "")
	storeChunk(t, stores, agentID, "doc.txt", 1, []float32{1, 0.1}, "real content")

	result, err := retriever.Retrieve(context.Background(), agentID, "query")
	require.NoError(t, err)
	assert.Equal(t, "real content", result)
}

func TestRetrieveTopKLimit(t *testing.T) {
	retriever, stores, embedder := setupRetriever(t)
	agentID := core.NewAgentID()

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	for i := 0; i < 8; i++ {
		storeChunk(t, stores, agentID, "doc.txt", i, []float32{1, float32(i) * 0.1}, "chunk")
	}

	result, err := retriever.Retrieve(context.Background(), agentID, "query")
	require.NoError(t, err)
	assert.Len(t, strings.Split(result, "\n\n"), DefaultTopK)
}

func TestRetrieveCustomTopK(t *testing.T) {
	retriever, stores, embedder := setupRetriever(t, WithTopK(2))
	agentID := core.NewAgentID()

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	for i := 0; i < 4; i++ {
		storeChunk(t, stores, agentID, "doc.txt", i, []float32{1, float32(i) * 0.1}, "chunk")
	}

	result, err := retriever.Retrieve(context.Background(), agentID, "query")
	require.NoError(t, err)
	assert.Len(t, strings.Split(result, "\n\n"), 2)
}

func TestRetrieveDeterministic(t *testing.T) {
	retriever, stores, embedder := setupRetriever(t)
	agentID := core.NewAgentID()

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0.6, 0.4}, nil
	}

	storeChunk(t, stores, agentID, "a.txt", 0, []float32{0.3, 0.7}, "alpha")
	storeChunk(t, stores, agentID, "b.txt", 0, []float32{0.7, 0.3}, "beta")

	first, err := retriever.Retrieve(context.Background(), agentID, "same query")
	require.NoError(t, err)
	second, err := retriever.Retrieve(context.Background(), agentID, "same query")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
