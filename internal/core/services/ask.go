package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.AskService = (*RAGService)(nil)

// RAGService answers questions by retrieving evidence from the vector
// store, augmenting the question with it, and asking the LLM under a
// grounded system instruction.
type RAGService struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	llm       driven.LLMService
	assembler *PromptAssembler
	retrieve  domain.RetrieveOptions
	chat      driven.ChatOptions
}

// NewRAGService creates a new RAG answering service with default
// retrieval parameters.
func NewRAGService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
	assembler *PromptAssembler,
) *RAGService {
	return &RAGService{
		embedder:  embedder,
		store:     store,
		llm:       llm,
		assembler: assembler,
		retrieve:  domain.RetrieveOptions{}.WithDefaults(),
	}
}

// SetRetrieveOptions overrides the retrieval parameters used by Ask.
func (s *RAGService) SetRetrieveOptions(opts domain.RetrieveOptions) {
	s.retrieve = opts.WithDefaults()
}

// SetChatOptions overrides the generation parameters used by Ask.
func (s *RAGService) SetChatOptions(opts driven.ChatOptions) {
	s.chat = opts
}

// Ask runs the full pipeline for one question and returns the grounded
// answer. A failure leaves the service ready for the next question.
func (s *RAGService) Ask(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	logger.Section("Retrieval")
	evidence, err := s.RetrieveContext(ctx, question, s.retrieve)
	if err != nil {
		return domain.Answer{}, err
	}

	logger.Section("Augmentation")
	prompt := s.AugmentPrompt(question, evidence)
	logger.Debug("User prompt:\n%s", prompt)

	logger.Section("Generation")
	text, err := s.GenerateAnswer(ctx, prompt)
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{
		Question: question,
		Evidence: evidence,
		Text:     text,
	}, nil
}

// RetrieveContext embeds the query, searches the index, and joins the
// chunks clearing the score threshold into a single evidence string.
// Chunks scoring strictly below the threshold are dropped; when nothing
// clears it the result is "" and no error.
func (s *RAGService) RetrieveContext(ctx context.Context, query string, opts domain.RetrieveOptions) (string, error) {
	opts = opts.WithDefaults()

	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrEmbeddingService, err)
	}

	hits, err := s.store.Search(ctx, embedding, opts.K)
	if err != nil {
		return "", fmt.Errorf("search index: %w", err)
	}

	kept := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < opts.ScoreThreshold {
			logger.Debug("Dropped chunk %d (score %.3f < %.2f)", hit.Chunk.Position, hit.Score, opts.ScoreThreshold)
			continue
		}
		logger.Debug("Kept chunk %d (score %.3f)", hit.Chunk.Position, hit.Score)
		kept = append(kept, hit.Chunk.Content)
	}
	logger.Debug("Retrieved %d chunks, kept %d", len(hits), len(kept))

	return strings.Join(kept, "\n\n"), nil
}

// AugmentPrompt renders the user-turn prompt combining evidence and
// question. Pure formatting, no side effects.
func (s *RAGService) AugmentPrompt(query, evidence string) string {
	return s.assembler.UserPrompt(evidence, query)
}

// GenerateAnswer sends an already-augmented prompt to the LLM under the
// grounded system instruction.
func (s *RAGService) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	messages := s.assembler.Assemble(prompt)

	text, err := s.llm.Chat(ctx, messages, s.chat)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationService, err)
	}
	return text, nil
}
