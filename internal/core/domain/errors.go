package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrDocumentUnreadable indicates the reference document cannot be
	// loaded or decoded as text. Fatal at index-build time.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrIndexNotFound indicates no index exists at the configured path.
	// Fatal at startup when loading; callers should build first.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmbeddingService indicates the embedding collaborator failed.
	// During a build this aborts the build; during retrieval it fails
	// the current question only.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrGenerationService indicates the LLM collaborator failed.
	// The current question fails; the process keeps accepting questions.
	ErrGenerationService = errors.New("generation service error")

	// ErrDimensionMismatch indicates a vector's dimensionality does not
	// match the index's embedding configuration. Mixing embeddings from
	// different models is rejected rather than silently scored.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
