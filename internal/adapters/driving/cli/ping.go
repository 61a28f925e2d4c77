package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured providers are reachable",
	Long: `Makes a lightweight request against the configured embedding and
generation services. Useful for verifying API keys and base URLs before
building an index.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := configStore.Config()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, embedder)

	llm, err := newLLM(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, llm)

	var failed bool

	if err := embedder.Ping(ctx); err != nil {
		failed = true
		cmd.Printf("embedding (%s): FAILED: %v\n", embedder.ModelName(), err)
	} else {
		cmd.Printf("embedding (%s): ok\n", embedder.ModelName())
	}

	if err := llm.Ping(ctx); err != nil {
		failed = true
		cmd.Printf("llm (%s): FAILED: %v\n", llm.ModelName(), err)
	} else {
		cmd.Printf("llm (%s): ok\n", llm.ModelName())
	}

	if failed {
		return fmt.Errorf("one or more providers unreachable")
	}
	return nil
}
