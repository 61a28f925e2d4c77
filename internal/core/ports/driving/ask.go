package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// AskService runs the RAG pipeline: retrieve, augment, generate.
// One question is processed at a time; a failed question never affects
// the next one.
type AskService interface {
	// Ask runs the full pipeline for one question and returns the
	// grounded answer.
	Ask(ctx context.Context, question string) (domain.Answer, error)

	// RetrieveContext embeds the query, searches the index, and joins the
	// chunks clearing the score threshold into a single evidence string.
	// Returns "" (not an error) when nothing clears the threshold.
	RetrieveContext(ctx context.Context, query string, opts domain.RetrieveOptions) (string, error)

	// AugmentPrompt renders the user-turn prompt combining evidence and
	// question. Pure formatting, no side effects.
	AugmentPrompt(query, evidence string) string

	// GenerateAnswer sends an already-augmented prompt to the LLM under
	// the grounded system instruction.
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}
