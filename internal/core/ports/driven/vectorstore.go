package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// VectorStore persists chunk embeddings and answers similarity queries.
//
// A store is built once from a chunk corpus and is read-only thereafter;
// rebuilds replace the store wholesale. Concurrent Search calls against a
// built store are safe.
type VectorStore interface {
	// BulkAdd stores all chunks (with embeddings) as one atomic unit.
	// Either every chunk is stored or none are; a failed BulkAdd must not
	// leave a store that loads as valid but is truncated.
	// Chunks missing embeddings, or whose embeddings do not match the
	// store's dimensionality, are rejected with ErrDimensionMismatch.
	BulkAdd(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k chunks with the highest similarity to the
	// query embedding, in descending score order. Ties are broken by
	// insertion order, earliest first. An empty store returns an empty
	// result, never an error.
	Search(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error)

	// Count returns the number of stored entries.
	Count() int

	// Dimensions returns the embedding vector size fixed at build time.
	Dimensions() int

	// Close releases resources.
	Close() error
}
