package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/extract"
	"github.com/poiesic/agentspace/storage"
	"github.com/poiesic/agentspace/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEmbedder implements ai.Embedder for testing
type testEmbedder struct {
	shouldError bool
	extraVector bool
}

func (m *testEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.shouldError {
		return nil, errors.New("embedder error")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *testEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if m.shouldError {
		return nil, errors.New("embedder error")
	}
	count := len(texts)
	if m.extraVector {
		count++
	}
	result := make([][]float32, count)
	for i := range result {
		result[i] = []float32{0.1, float32(i) * 0.01, 0.3}
	}
	return result, nil
}

func setupPipeline(t *testing.T) (*Pipeline, *badger.Stores, core.AgentID) {
	t.Helper()

	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	agent, err := stores.Agents.AddAgent(context.Background(), &core.Agent{
		Name:       "Librarian",
		MetaPrompt: "You organize documents.",
	})
	require.NoError(t, err)

	pipeline, err := NewPipeline(stores.Agents, stores.Vectors, &testEmbedder{})
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, stores, agent.ID
}

func textDocument(fileName, text string) *core.KnowledgeDocument {
	return &core.KnowledgeDocument{
		FileName:    fileName,
		ContentType: "text/plain",
		RawBytes:    []byte(text),
	}
}

func TestIngestWritesAllChunks(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	// 1050 characters against the 512 default: three chunks
	text := strings.Repeat("a", 1050)
	count, err := pipeline.Ingest(ctx, agentID, textDocument("big.txt", text))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	records, err := stores.Vectors.ListRecords(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Concatenated chunk text reproduces the document
	var rebuilt strings.Builder
	for _, r := range records {
		rebuilt.WriteString(r.Text)
	}
	assert.Equal(t, text, rebuilt.String())

	// Source document is stored alongside the vectors
	doc, err := stores.Agents.GetDocument(ctx, agentID, "big.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(1050), doc.SizeBytes)
}

func TestIngestReplacesPreviousUpload(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, agentID, textDocument("notes.txt", strings.Repeat("x", 1050)))
	require.NoError(t, err)

	count, err := pipeline.Ingest(ctx, agentID, textDocument("notes.txt", "short now"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := stores.Vectors.ListRecords(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "short now", records[0].Text)
}

func TestIngestEmbeddingCountMismatch(t *testing.T) {
	stores, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	ctx := context.Background()
	agent, err := stores.Agents.AddAgent(ctx, &core.Agent{Name: "A", MetaPrompt: "p"})
	require.NoError(t, err)

	pipeline, err := NewPipeline(stores.Agents, stores.Vectors, &testEmbedder{extraVector: true})
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	_, err = pipeline.Ingest(ctx, agent.ID, textDocument("doc.txt", "some text"))
	assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)

	// Nothing written
	records, err := stores.Vectors.ListRecords(ctx, agent.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
	_, err = stores.Agents.GetDocument(ctx, agent.ID, "doc.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngestEmptyDocument(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	// An empty upload means "nothing to index", never an error.
	count, err := pipeline.Ingest(ctx, agentID, textDocument("empty.txt", ""))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	records, err := stores.Vectors.ListRecords(ctx, agentID)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = stores.Agents.GetDocument(ctx, agentID, "empty.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	agent, err := stores.Agents.GetAgent(ctx, agentID)
	require.NoError(t, err)
	assert.False(t, agent.Knowledge)
}

func TestIngestSetsKnowledgeFlag(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	agent, err := stores.Agents.GetAgent(ctx, agentID)
	require.NoError(t, err)
	require.False(t, agent.Knowledge)

	_, err = pipeline.Ingest(ctx, agentID, textDocument("notes.txt", "some knowledge"))
	require.NoError(t, err)

	agent, err = stores.Agents.GetAgent(ctx, agentID)
	require.NoError(t, err)
	assert.True(t, agent.Knowledge)
}

func TestRemoveDocumentClearsKnowledgeFlag(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, agentID, textDocument("one.txt", "first"))
	require.NoError(t, err)
	_, err = pipeline.Ingest(ctx, agentID, textDocument("two.txt", "second"))
	require.NoError(t, err)

	// One document remains: the agent still has knowledge.
	require.NoError(t, pipeline.RemoveDocument(ctx, agentID, "one.txt"))
	agent, err := stores.Agents.GetAgent(ctx, agentID)
	require.NoError(t, err)
	assert.True(t, agent.Knowledge)

	// The last document is gone: the flag clears.
	require.NoError(t, pipeline.RemoveDocument(ctx, agentID, "two.txt"))
	agent, err = stores.Agents.GetAgent(ctx, agentID)
	require.NoError(t, err)
	assert.False(t, agent.Knowledge)
}

func TestIngestUnsupportedFileType(t *testing.T) {
	pipeline, _, agentID := setupPipeline(t)

	doc := &core.KnowledgeDocument{FileName: "image.png", RawBytes: []byte{0x89, 0x50}}
	_, err := pipeline.Ingest(context.Background(), agentID, doc)
	assert.ErrorIs(t, err, extract.ErrUnsupportedFileType)
}

func TestIngestUnknownAgent(t *testing.T) {
	pipeline, _, _ := setupPipeline(t)

	_, err := pipeline.Ingest(context.Background(), core.NewAgentID(), textDocument("doc.txt", "text"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngestBatch(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	docs := []*core.KnowledgeDocument{
		textDocument("one.txt", "first document"),
		textDocument("two.txt", "second document"),
		textDocument("bad.png", "unsupported"),
	}
	count, err := pipeline.IngestBatch(ctx, agentID, docs)
	assert.ErrorIs(t, err, extract.ErrUnsupportedFileType)
	assert.Equal(t, 2, count)

	records, err := stores.Vectors.ListRecords(ctx, agentID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRemoveDocument(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, agentID, textDocument("keep.txt", "keep me"))
	require.NoError(t, err)
	_, err = pipeline.Ingest(ctx, agentID, textDocument("drop.txt", "drop me"))
	require.NoError(t, err)

	require.NoError(t, pipeline.RemoveDocument(ctx, agentID, "drop.txt"))

	records, err := stores.Vectors.ListRecords(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep.txt", records[0].FileName)

	_, err = stores.Agents.GetDocument(ctx, agentID, "drop.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRemoveAgent(t *testing.T) {
	pipeline, stores, agentID := setupPipeline(t)
	ctx := context.Background()

	_, err := pipeline.Ingest(ctx, agentID, textDocument("doc.txt", "content"))
	require.NoError(t, err)

	require.NoError(t, pipeline.RemoveAgent(ctx, agentID))

	_, err = stores.Agents.GetAgent(ctx, agentID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	cols, err := stores.Vectors.ListCollections(ctx)
	require.NoError(t, err)
	assert.Empty(t, cols)
}
