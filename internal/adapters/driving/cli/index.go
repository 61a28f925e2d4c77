package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vectorstore/sqlite"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index [document]",
	Short: "Build the vector index from a document",
	Long: `Chunks the given plain-text document, embeds every chunk, and
persists the vectors to the local index. Without an argument the
configured source document is used.

An interrupted build never leaves a loadable partial index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "rebuild even if an index already exists")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := configStore.Config()

	source := cfg.Index.Manual
	if len(args) == 1 {
		source = args[0]
	}
	if source == "" {
		return fmt.Errorf("no document given and no index.manual configured")
	}

	if indexService == nil {
		if sqlite.Exists(cfg.Index.Path) && !indexForce {
			return fmt.Errorf("index already exists at %s (use --force to rebuild)", cfg.Index.Path)
		}

		embedder, err := newEmbedder(cfg)
		if err != nil {
			return err
		}
		closers = append(closers, embedder)

		store, err := sqlite.Create(cfg.Index.Path, embedder.ModelName(), embedder.Dimensions())
		if err != nil {
			return err
		}
		closers = append(closers, store)

		indexService = newIndexer(cfg, embedder, store)
	}

	stats, err := indexService.Build(ctx, source)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks (%d dimensions) in %s\n",
		stats.Chunks, stats.Dimensions, stats.Duration.Round(time.Millisecond))

	// Remember the source so ask/chat can rebuild automatically
	if cfg.Index.Manual != source {
		if err := configStore.Update(func(c *file.Config) {
			c.Index.Manual = source
		}); err != nil {
			return err
		}
	}
	return nil
}
