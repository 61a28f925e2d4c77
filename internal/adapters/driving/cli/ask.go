package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	askK         int
	askThreshold float64
	askShowCtx   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the indexed document",
	Long: `Answers one question using retrieval-augmented generation.
The question is embedded, the most similar chunks are retrieved from
the local index, and the LLM answers grounded in that context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askK, "k", "k", 0, "maximum chunks to retrieve (default from config)")
	askCmd.Flags().Float64VarP(&askThreshold, "threshold", "t", 0, "minimum similarity score (default from config)")
	askCmd.Flags().BoolVar(&askShowCtx, "show-context", false, "print the retrieved context before the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := ensureAskService(ctx); err != nil {
		return err
	}

	question := args[0]

	if askK > 0 || askThreshold > 0 {
		cfg := configStore.Config()
		opts := domain.RetrieveOptions{
			K:              cfg.Retrieval.K,
			ScoreThreshold: cfg.Retrieval.ScoreThreshold,
		}
		if askK > 0 {
			opts.K = askK
		}
		if askThreshold > 0 {
			opts.ScoreThreshold = askThreshold
		}

		evidence, err := askService.RetrieveContext(ctx, question, opts)
		if err != nil {
			return fmt.Errorf("answer failed: %w", err)
		}
		prompt := askService.AugmentPrompt(question, evidence)
		text, err := askService.GenerateAnswer(ctx, prompt)
		if err != nil {
			return fmt.Errorf("answer failed: %w", err)
		}
		printAnswer(cmd, domain.Answer{Question: question, Evidence: evidence, Text: text})
		return nil
	}

	answer, err := askService.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer domain.Answer) {
	if askShowCtx {
		if answer.Evidence == "" {
			cmd.Println("Context: (nothing cleared the score threshold)")
		} else {
			cmd.Println("Context:")
			cmd.Println(answer.Evidence)
		}
		cmd.Println()
	}
	cmd.Println(answer.Text)
}
