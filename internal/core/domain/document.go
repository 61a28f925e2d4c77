package domain

import "time"

// Document represents the loaded reference document.
// It is immutable once loaded; only its derived chunks are persisted.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title, derived from the file name.
	Title string

	// Content is the full decoded text content before chunking.
	Content string

	// CreatedAt is when the document was loaded for indexing.
	CreatedAt time.Time
}

// Chunk represents an embeddable unit within a document.
// Documents are split into overlapping chunks so that retrieval
// preserves context across chunk boundaries.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// SourceURI is the URI of the parent document, carried as metadata
	// so retrieval results can name their origin without a lookup.
	SourceURI string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation used for similarity search.
	// Populated at index-build time; all embeddings within one index share
	// the same dimensionality.
	Embedding []float32
}
