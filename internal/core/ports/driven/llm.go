package driven

import "context"

// LLMService generates text completions for the RAG pipeline.
//
// Implementations may include:
//   - OpenAI-compatible APIs (GPT-4o, Azure deployments)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Chat produces a completion for an ordered message sequence.
	// The pipeline sends exactly one system and one user message per
	// question; implementations must not reorder them.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup to fail fast on misconfiguration.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Message roles used by the pipeline.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage represents a single role-tagged message.
type ChatMessage struct {
	// Role is one of RoleSystem or RoleUser.
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures generation behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
