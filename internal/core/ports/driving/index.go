package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// IndexService builds the vector index from the reference document.
// Building is a cold-start operation: it must not be interleaved with
// queries against the store being built.
type IndexService interface {
	// Build loads the document at path, chunks it, embeds every chunk,
	// and stores the entries. Any embedding failure aborts the build;
	// partial indexes are never left behind.
	Build(ctx context.Context, path string) (domain.IndexStats, error)
}
