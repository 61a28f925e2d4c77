package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The same service configuration must be used for building an index and
// for every query against it; the VectorStore records the model name and
// dimensionality at build time and rejects mismatches on load.
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small, Azure deployments)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	// Results are returned in input order, one vector per text.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to fail fast on misconfiguration.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
