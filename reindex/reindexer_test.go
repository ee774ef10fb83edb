package reindex

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/poiesic/agentspace/ai/mock"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCollection(t *testing.T, stores *badger.Stores, agentID core.AgentID, n, dim int) {
	t.Helper()
	records := make([]*core.VectorRecord, n)
	for i := range records {
		vector := make([]float32, dim)
		vector[0] = 1
		records[i] = &core.VectorRecord{
			Id:         core.RecordID(agentID, "doc.txt", i),
			FileName:   "doc.txt",
			Vector:     vector,
			Text:       "chunk",
			InsertedAt: time.Now().UTC(),
		}
	}
	require.NoError(t, stores.Vectors.Upsert(context.Background(), agentID, records...))
}

func TestReindexerRun(t *testing.T) {
	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	agentID := core.NewAgentID()
	seedCollection(t, stores, agentID, 7, 3)

	// New model with a different dimensionality
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		result := make([][]float32, len(texts))
		for i := range result {
			result[i] = []float32{0.5, 0.5, 0.5, 0.5, 0.5}
		}
		return result, nil
	}

	var out bytes.Buffer
	reindexer := NewReindexer(stores.Vectors, embedder, &Config{
		BatchSize:      3,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &out)

	require.NoError(t, reindexer.Run(context.Background(), agentID))

	records, err := stores.Vectors.ListRecords(context.Background(), agentID)
	require.NoError(t, err)
	require.Len(t, records, 7)
	for _, r := range records {
		assert.Len(t, r.Vector, 5)
	}
	assert.Contains(t, out.String(), "Reindex complete")
}

func TestReindexerRunEmptyCollection(t *testing.T) {
	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	var out bytes.Buffer
	reindexer := NewReindexer(stores.Vectors, mock.NewMockEmbedder(), nil, &out)

	require.NoError(t, reindexer.Run(context.Background(), core.NewAgentID()))
	assert.Contains(t, out.String(), "No records found")
}

func TestReindexerRunAll(t *testing.T) {
	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	first := core.NewAgentID()
	second := core.NewAgentID()
	seedCollection(t, stores, first, 2, 3)
	seedCollection(t, stores, second, 4, 3)

	var out bytes.Buffer
	reindexer := NewReindexer(stores.Vectors, mock.NewMockEmbedder(), &Config{
		BatchSize:      10,
		ReportInterval: 1,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}, &out)

	require.NoError(t, reindexer.RunAll(context.Background()))

	for _, agentID := range []core.AgentID{first, second} {
		records, err := stores.Vectors.ListRecords(context.Background(), agentID)
		require.NoError(t, err)
		assert.NotEmpty(t, records)
	}
}
