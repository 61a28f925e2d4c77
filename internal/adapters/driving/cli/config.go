package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider]",
	Short: "Store an API key for a provider",
	Long: `Prompts for an API key and stores it in the configuration file.
Provider is "openai" or "anthropic". The key is read without echo.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := configStore.Config()

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	cmd.Printf("Embedding:\n")
	cmd.Printf("  provider:  %s\n", cfg.Embedding.Provider)
	cmd.Printf("  model:     %s\n", orDefault(cfg.Embedding.Model))
	cmd.Printf("  api key:   %s\n", maskAPIKey(cfg.Embedding.APIKey))
	cmd.Printf("LLM:\n")
	cmd.Printf("  provider:  %s\n", cfg.LLM.Provider)
	cmd.Printf("  model:     %s\n", orDefault(cfg.LLM.Model))
	cmd.Printf("  api key:   %s\n", maskAPIKey(cfg.LLM.APIKey))
	cmd.Printf("Index:\n")
	cmd.Printf("  path:      %s\n", cfg.Index.Path)
	cmd.Printf("  manual:    %s\n", orDefault(cfg.Index.Manual))
	cmd.Printf("  chunking:  size %d, overlap %d\n", cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	cmd.Printf("Retrieval:\n")
	cmd.Printf("  k:         %d\n", cfg.Retrieval.K)
	cmd.Printf("  threshold: %.2f\n", cfg.Retrieval.ScoreThreshold)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	provider := strings.ToLower(args[0])
	if provider != "openai" && provider != "anthropic" {
		return fmt.Errorf("unknown provider %q (expected openai or anthropic)", provider)
	}

	var key string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		cmd.Printf("Enter %s API key: ", provider)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("read API key: %w", err)
		}
		key = strings.TrimSpace(string(raw))
	} else {
		// Piped input, e.g. `echo $KEY | askdoc config set-key openai`
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &key); err != nil {
			return fmt.Errorf("read API key: %w", err)
		}
		key = strings.TrimSpace(key)
	}
	if key == "" {
		return fmt.Errorf("empty API key")
	}

	err := configStore.Update(func(cfg *file.Config) {
		switch provider {
		case "openai":
			// One OpenAI key serves both embedding and generation
			cfg.Embedding.APIKey = key
			if cfg.LLM.Provider != "anthropic" {
				cfg.LLM.APIKey = key
			}
		case "anthropic":
			cfg.LLM.APIKey = key
		}
	})
	if err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	cmd.Printf("Stored %s API key in %s\n", provider, configStore.Path())
	return nil
}

// maskAPIKey hides all but the last 4 characters of a key.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
