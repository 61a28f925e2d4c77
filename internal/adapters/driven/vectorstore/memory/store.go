// Package memory provides an in-memory vector store.
// It performs exact cosine-similarity search over all entries and is the
// search engine behind the persisted sqlite store; it is also used
// directly in tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory implementation of driven.VectorStore.
// Entries are kept in insertion order; ties in similarity are broken by
// that order, earliest first.
type Store struct {
	mu         sync.RWMutex
	dimensions int
	chunks     []domain.Chunk
}

// New creates a new in-memory vector store for embeddings of the given
// dimensionality.
func New(dimensions int) *Store {
	return &Store{dimensions: dimensions}
}

// BulkAdd stores all chunks. Every chunk must carry an embedding of the
// store's dimensionality; otherwise nothing is stored and
// domain.ErrDimensionMismatch is returned.
func (s *Store) BulkAdd(_ context.Context, chunks []domain.Chunk) error {
	for i := range chunks {
		if len(chunks[i].Embedding) != s.dimensions {
			return fmt.Errorf("%w: chunk %s has %d dimensions, store has %d",
				domain.ErrDimensionMismatch, chunks[i].ID, len(chunks[i].Embedding), s.dimensions)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// Search returns up to k chunks ranked by descending similarity to the
// query embedding. An empty store yields an empty result, never an error.
func (s *Store) Search(_ context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error) {
	if len(embedding) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrDimensionMismatch, len(embedding), s.dimensions)
	}
	if k <= 0 {
		return []domain.ScoredChunk{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]domain.ScoredChunk, 0, len(s.chunks))
	for i := range s.chunks {
		scored = append(scored, domain.ScoredChunk{
			Chunk: s.chunks[i],
			Score: Similarity(embedding, s.chunks[i].Embedding),
		})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Dimensions returns the embedding vector size.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// Similarity computes the normalised cosine similarity between two
// vectors: (1 + cos) / 2, mapping cosine's [-1, 1] onto [0, 1].
// A zero vector on either side scores 0.
func Similarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	score := (1 + cos) / 2

	// Guard against floating point drift outside [0, 1].
	return math.Min(1, math.Max(0, score))
}
