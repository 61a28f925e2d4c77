package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

const testModel = "test-embedding-model"

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "c1", DocumentID: "doc", SourceURI: "manual.txt", Position: 0,
			Content: "Press the defrost button.", Embedding: []float32{1, 0, 0}},
		{ID: "c2", DocumentID: "doc", SourceURI: "manual.txt", Position: 1,
			Content: "Set the power level first.", Embedding: []float32{0, 1, 0}},
		{ID: "c3", DocumentID: "doc", SourceURI: "manual.txt", Position: 2,
			Content: "Never run the oven empty.", Embedding: []float32{0, 0, 1}},
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.db"), testModel, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestOpen_UnfinalisedIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	// Create writes the schema but no metadata; without a committed
	// BulkAdd the file must not load.
	s, err := Create(path, testModel, 3)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path, testModel, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	built, err := Create(path, testModel, 3)
	require.NoError(t, err)
	require.NoError(t, built.BulkAdd(ctx, testChunks()))

	query := []float32{0.9, 0.4, 0.1}
	want, err := built.Search(ctx, query, 3)
	require.NoError(t, err)
	require.Len(t, want, 3)
	require.NoError(t, built.Close())

	loaded, err := Open(path, testModel, 3)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, 3, loaded.Count())
	assert.Equal(t, 3, loaded.Dimensions())
	assert.Equal(t, testModel, loaded.Model())
	assert.False(t, loaded.BuiltAt().IsZero())

	got, err := loaded.Search(ctx, query, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, want[i].Chunk.ID, got[i].Chunk.ID)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-9)
	}
}

func TestOpen_ModelMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	s, err := Create(path, testModel, 3)
	require.NoError(t, err)
	require.NoError(t, s.BulkAdd(ctx, testChunks()))
	require.NoError(t, s.Close())

	_, err = Open(path, "another-model", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestOpen_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	s, err := Create(path, testModel, 3)
	require.NoError(t, err)
	require.NoError(t, s.BulkAdd(ctx, testChunks()))
	require.NoError(t, s.Close())

	_, err = Open(path, testModel, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestCreate_ReplacesExistingIndex(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	first, err := Create(path, testModel, 3)
	require.NoError(t, err)
	require.NoError(t, first.BulkAdd(ctx, testChunks()))
	require.NoError(t, first.Close())

	second, err := Create(path, testModel, 3)
	require.NoError(t, err)
	require.NoError(t, second.BulkAdd(ctx, testChunks()[:1]))
	require.NoError(t, second.Close())

	loaded, err := Open(path, testModel, 3)
	require.NoError(t, err)
	defer loaded.Close()
	assert.Equal(t, 1, loaded.Count())
}

func TestBulkAdd_EmptyCorpus(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	s, err := Create(path, testModel, 3)
	require.NoError(t, err)
	require.NoError(t, s.BulkAdd(ctx, nil))
	require.NoError(t, s.Close())

	// An empty build is still a valid, loadable index.
	loaded, err := Open(path, testModel, 3)
	require.NoError(t, err)
	defer loaded.Close()
	assert.Equal(t, 0, loaded.Count())

	hits, err := loaded.Search(ctx, []float32{1, 0, 0}, 4)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBulkAdd_RejectsWrongDimensions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	s, err := Create(path, testModel, 3)
	require.NoError(t, err)
	defer s.Close()

	err = s.BulkAdd(ctx, []domain.Chunk{
		{ID: "bad", Content: "x", Embedding: []float32{1, 0}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestCreate_RequiresEmbeddingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	_, err := Create(path, "", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Create(path, testModel, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")
	assert.False(t, Exists(path))

	s, err := Create(path, testModel, 3)
	require.NoError(t, err)
	defer s.Close()
	assert.True(t, Exists(path))
	assert.False(t, Exists(dir), "directories are not indexes")
}
