package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// mockLoader implements DocumentLoader for testing.
type mockLoader struct {
	doc *domain.Document
	err error
}

func (m *mockLoader) Load(_ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

// mockSplitter implements Splitter for testing.
type mockSplitter struct {
	chunks []domain.Chunk
}

func (m *mockSplitter) Split(_ *domain.Document) []domain.Chunk {
	return m.chunks
}

func testChunks(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:       string(rune('a' + i)),
			Position: i,
			Content:  "chunk content",
		}
	}
	return chunks
}

func TestBuild_Success(t *testing.T) {
	loader := &mockLoader{doc: &domain.Document{ID: "doc-1", URI: "manual.txt", Title: "manual"}}
	splitter := &mockSplitter{chunks: testChunks(5)}
	embedder := &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}, dims: 3}
	store := &mockVectorStore{}

	indexer := NewIndexer(loader, splitter, embedder, store)
	indexer.SetBatchSize(2)

	stats, err := indexer.Build(context.Background(), "manual.txt")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 5, stats.Chunks)
	assert.Equal(t, 3, stats.Dimensions)

	// 5 chunks at batch size 2 means 3 embedding calls
	require.Len(t, embedder.batchCalls, 3)
	assert.Len(t, embedder.batchCalls[0], 2)
	assert.Len(t, embedder.batchCalls[2], 1)

	// Every stored chunk carries its embedding
	require.Len(t, store.added, 5)
	for _, chunk := range store.added {
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, chunk.Embedding)
	}
}

func TestBuild_LoaderError(t *testing.T) {
	loader := &mockLoader{err: domain.ErrDocumentUnreadable}
	indexer := NewIndexer(loader, &mockSplitter{}, &mockEmbedder{}, &mockVectorStore{})

	_, err := indexer.Build(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
}

func TestBuild_NoChunks(t *testing.T) {
	loader := &mockLoader{doc: &domain.Document{ID: "doc-1", URI: "empty.txt"}}
	indexer := NewIndexer(loader, &mockSplitter{}, &mockEmbedder{}, &mockVectorStore{})

	_, err := indexer.Build(context.Background(), "empty.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_EmbedErrorAborts(t *testing.T) {
	loader := &mockLoader{doc: &domain.Document{ID: "doc-1", URI: "manual.txt"}}
	splitter := &mockSplitter{chunks: testChunks(3)}
	embedder := &mockEmbedder{err: errors.New("quota exceeded")}
	store := &mockVectorStore{}

	indexer := NewIndexer(loader, splitter, embedder, store)

	_, err := indexer.Build(context.Background(), "manual.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingService)

	// Nothing was stored
	assert.Empty(t, store.added)
}

func TestBuild_StoreError(t *testing.T) {
	loader := &mockLoader{doc: &domain.Document{ID: "doc-1", URI: "manual.txt"}}
	splitter := &mockSplitter{chunks: testChunks(2)}
	embedder := &mockEmbedder{vector: []float32{1}, dims: 1}
	store := &mockVectorStore{addErr: errors.New("disk full")}

	indexer := NewIndexer(loader, splitter, embedder, store)

	_, err := indexer.Build(context.Background(), "manual.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store chunks")
}

func TestBuild_RateLimitHonoursContext(t *testing.T) {
	loader := &mockLoader{doc: &domain.Document{ID: "doc-1", URI: "manual.txt"}}
	splitter := &mockSplitter{chunks: testChunks(4)}
	embedder := &mockEmbedder{vector: []float32{1}, dims: 1}

	indexer := NewIndexer(loader, splitter, embedder, &mockVectorStore{})
	indexer.SetBatchSize(1)
	// Slow enough that the second batch must wait past the deadline
	indexer.SetRateLimit(0.001, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := indexer.Build(ctx, "manual.txt")
	require.Error(t, err)
}
