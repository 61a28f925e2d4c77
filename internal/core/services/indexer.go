package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// DefaultEmbedBatchSize is how many chunk texts are embedded per
// provider request during a build.
const DefaultEmbedBatchSize = 32

// DocumentLoader loads and normalises a source document from disk.
type DocumentLoader interface {
	Load(path string) (*domain.Document, error)
}

// Splitter cuts a normalised document into retrieval-sized chunks.
type Splitter interface {
	Split(doc *domain.Document) []domain.Chunk
}

// Indexer builds the vector index: load, chunk, embed, store.
// Embeddings are requested in batches; any embedding failure aborts the
// build before anything is written, so a partial index is never stored.
type Indexer struct {
	loader    DocumentLoader
	splitter  Splitter
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	limiter   *rate.Limiter
	batchSize int
}

// NewIndexer creates a new index build service.
func NewIndexer(
	loader DocumentLoader,
	splitter Splitter,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *Indexer {
	return &Indexer{
		loader:    loader,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		batchSize: DefaultEmbedBatchSize,
	}
}

// SetRateLimit throttles embedding requests to rps per second with the
// given burst. Zero or negative rps disables throttling.
func (x *Indexer) SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		x.limiter = nil
		return
	}
	if burst < 1 {
		burst = 1
	}
	x.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// SetBatchSize overrides how many texts are embedded per request.
func (x *Indexer) SetBatchSize(n int) {
	if n > 0 {
		x.batchSize = n
	}
}

// Build loads the document at path, chunks it, embeds every chunk, and
// stores the entries in one transaction.
func (x *Indexer) Build(ctx context.Context, path string) (domain.IndexStats, error) {
	start := time.Now()
	logger.Section("Index Build")
	logger.Debug("Source: %s", path)

	doc, err := x.loader.Load(path)
	if err != nil {
		return domain.IndexStats{}, err
	}

	chunks := x.splitter.Split(doc)
	if len(chunks) == 0 {
		return domain.IndexStats{}, fmt.Errorf("%w: document %q produced no chunks", domain.ErrInvalidInput, doc.URI)
	}
	logger.Debug("Split %q into %d chunks", doc.Title, len(chunks))

	for lo := 0; lo < len(chunks); lo += x.batchSize {
		hi := lo + x.batchSize
		if hi > len(chunks) {
			hi = len(chunks)
		}

		if x.limiter != nil {
			if err := x.limiter.Wait(ctx); err != nil {
				return domain.IndexStats{}, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		texts := make([]string, hi-lo)
		for i, chunk := range chunks[lo:hi] {
			texts[i] = chunk.Content
		}

		vectors, err := x.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return domain.IndexStats{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingService, err)
		}
		if len(vectors) != len(texts) {
			return domain.IndexStats{}, fmt.Errorf("%w: got %d embeddings for %d texts",
				domain.ErrEmbeddingService, len(vectors), len(texts))
		}

		for i := range vectors {
			chunks[lo+i].Embedding = vectors[i]
		}
		logger.Debug("Embedded chunks %d-%d", lo, hi-1)
	}

	if err := x.store.BulkAdd(ctx, chunks); err != nil {
		return domain.IndexStats{}, fmt.Errorf("store chunks: %w", err)
	}

	stats := domain.IndexStats{
		Documents:  1,
		Chunks:     len(chunks),
		Dimensions: x.embedder.Dimensions(),
		Duration:   time.Since(start),
	}
	logger.Debug("Indexed %d chunks in %s", stats.Chunks, stats.Duration)
	return stats, nil
}
