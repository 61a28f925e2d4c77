// Package cli implements the command-line interface.
// Commands are thin adapters: they parse flags, wire adapters to core
// services, and format output. Business logic lives in core/services.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/askdoc-cli/internal/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers/plaintext"
)

// version is set at build time via -ldflags.
var version = "dev"

// Package-level services, wired on first use. Tests inject mocks here.
var (
	configStore  *file.ConfigStore
	askService   driving.AskService
	indexService driving.IndexService
)

// configDir overrides the configuration directory (--config-dir).
var configDir string

var verbose bool

// closers holds resources to release when the command finishes.
var closers []io.Closer

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about a reference document",
	Long: `Askdoc answers questions about a reference document (such as an
appliance manual) using retrieval-augmented generation: the document is
chunked and embedded into a local vector index, and each question is
answered by an LLM grounded in the most relevant chunks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.askdoc)")
}

// Execute runs the root command.
func Execute() error {
	defer closeAll()
	return rootCmd.Execute()
}

func closeAll() {
	for _, c := range closers {
		_ = c.Close()
	}
	closers = nil
}

// initConfig creates the config store unless a test already injected one.
func initConfig() error {
	if configStore != nil {
		return nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	configStore = store
	return nil
}

// newEmbedder builds the configured embedding service.
func newEmbedder(cfg file.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "", "openai":
		svc, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "ollama":
		return embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

// newLLM builds the configured generation service.
func newLLM(cfg file.Config) (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case "", "openai":
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	case "ollama":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	case "anthropic":
		return anthropic.NewLLMService(anthropic.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}

// newIndexer wires the index build service against the given store.
func newIndexer(cfg file.Config, embedder driven.EmbeddingService, store driven.VectorStore) *services.Indexer {
	split := chunker.New(
		chunker.WithChunkSize(cfg.Index.ChunkSize),
		chunker.WithOverlap(cfg.Index.ChunkOverlap),
	)
	indexer := services.NewIndexer(plaintext.New(), split, embedder, store)
	indexer.SetRateLimit(cfg.Embedding.RequestsPerSecond, cfg.Embedding.Burst)
	return indexer
}

// ensureAskService wires the full question-answering pipeline, building
// the index first if it does not exist and a source document is
// configured.
func ensureAskService(ctx context.Context) error {
	if askService != nil {
		return nil
	}
	cfg := configStore.Config()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, embedder)

	store, err := openOrBuildIndex(ctx, cfg, embedder)
	if err != nil {
		return err
	}
	closers = append(closers, store)

	llm, err := newLLM(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, llm)

	prompts, err := file.NewPromptStore(filepath.Join(configStore.Dir(), "prompts"))
	if err != nil {
		return err
	}

	assembler, err := services.NewPromptAssembler(prompts)
	if err != nil {
		return err
	}

	svc := services.NewRAGService(embedder, store, llm, assembler)
	svc.SetRetrieveOptions(domain.RetrieveOptions{
		K:              cfg.Retrieval.K,
		ScoreThreshold: cfg.Retrieval.ScoreThreshold,
	})
	svc.SetChatOptions(driven.ChatOptions{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	askService = svc
	return nil
}

// openOrBuildIndex loads the persisted index, or builds it from the
// configured source document when none exists yet.
func openOrBuildIndex(ctx context.Context, cfg file.Config, embedder driven.EmbeddingService) (*sqlite.Store, error) {
	if sqlite.Exists(cfg.Index.Path) {
		logger.Debug("Loading index from %s", cfg.Index.Path)
		return sqlite.Open(cfg.Index.Path, embedder.ModelName(), embedder.Dimensions())
	}

	if cfg.Index.Manual == "" {
		return nil, fmt.Errorf("no index at %s: run 'askdoc index <document>' first", cfg.Index.Path)
	}

	logger.Debug("No index at %s, building from %s", cfg.Index.Path, cfg.Index.Manual)
	store, err := sqlite.Create(cfg.Index.Path, embedder.ModelName(), embedder.Dimensions())
	if err != nil {
		return nil, err
	}

	indexer := newIndexer(cfg, embedder, store)
	stats, err := indexer.Build(ctx, cfg.Index.Manual)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("Indexed %d chunks in %s", stats.Chunks, stats.Duration.Round(time.Millisecond))
	return store, nil
}
