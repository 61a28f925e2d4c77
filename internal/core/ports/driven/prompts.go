package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Implementations should fall back to an embedded default when the
	// named prompt has no user-provided override.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptRAGSystem is the system instruction for grounded answering.
	// The template has no format placeholders and is sent verbatim.
	PromptRAGSystem = "rag_system"

	// PromptRAGUser is the user-turn template combining retrieved context
	// with the live question. It expects two %s placeholders: context
	// first, question second.
	PromptRAGUser = "rag_user"
)
