// Package domain defines the core business entities for Askdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The loaded reference document
//   - Chunk: An embeddable unit of a document
//   - ScoredChunk: A retrieval hit with its similarity score
//   - Answer: The result of one pass through the RAG pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
