package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// PromptAssembler renders the fixed message structure sent to the LLM:
// a system instruction and a single user turn combining retrieved
// context with the question. Templates are resolved once at
// construction so a malformed override fails at wiring time, not
// mid-question.
type PromptAssembler struct {
	system       string
	userTemplate string
}

// NewPromptAssembler loads the answering templates from the store.
// The user template must contain exactly two %s placeholders: the
// retrieved context first, the question second.
func NewPromptAssembler(prompts driven.PromptStore) (*PromptAssembler, error) {
	system, err := prompts.Load(driven.PromptRAGSystem)
	if err != nil {
		return nil, fmt.Errorf("load system prompt: %w", err)
	}

	userTemplate, err := prompts.Load(driven.PromptRAGUser)
	if err != nil {
		return nil, fmt.Errorf("load user prompt template: %w", err)
	}
	if got := strings.Count(userTemplate, "%s"); got != 2 {
		return nil, fmt.Errorf("user prompt template needs exactly 2 %%s placeholders, has %d", got)
	}

	return &PromptAssembler{
		system:       system,
		userTemplate: userTemplate,
	}, nil
}

// SystemPrompt returns the system instruction, sent verbatim on every
// generation request.
func (a *PromptAssembler) SystemPrompt() string {
	return a.system
}

// UserPrompt renders the user turn. Evidence may be empty; the labelled
// structure is kept either way so the model can state it cannot answer.
func (a *PromptAssembler) UserPrompt(evidence, question string) string {
	return fmt.Sprintf(a.userTemplate, evidence, question)
}

// Assemble wraps an already-rendered user prompt into the two-message
// sequence the generation service expects.
func (a *PromptAssembler) Assemble(userPrompt string) []driven.ChatMessage {
	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: a.system},
		{Role: driven.RoleUser, Content: userPrompt},
	}
}
