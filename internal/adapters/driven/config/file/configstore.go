package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDirName is the per-user configuration directory under $HOME.
const DefaultDirName = ".askdoc"

// Config is the full application configuration as stored in config.toml.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Index     IndexConfig     `toml:"index"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`

	// Model is the embedding model name. Empty means the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the provider API base URL.
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey authenticates against the provider. Falls back to the
	// OPENAI_API_KEY environment variable when empty.
	APIKey string `toml:"api_key,omitempty"`

	// Dimensions is the embedding vector size. Zero means the model default.
	Dimensions int `toml:"dimensions,omitempty"`

	// RequestsPerSecond throttles embedding calls during index builds.
	// Zero disables throttling.
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`

	// Burst is the rate limiter burst size (default 1 when throttled).
	Burst int `toml:"burst,omitempty"`
}

// LLMConfig selects and configures the answer generation provider.
type LLMConfig struct {
	// Provider is "openai", "ollama" or "anthropic".
	Provider string `toml:"provider"`

	// Model is the chat model name. Empty means the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the provider API base URL.
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey authenticates against the provider. Falls back to
	// OPENAI_API_KEY or ANTHROPIC_API_KEY depending on the provider.
	APIKey string `toml:"api_key,omitempty"`

	// Temperature controls sampling randomness. Zero means provider default.
	Temperature float64 `toml:"temperature,omitempty"`

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int `toml:"max_tokens,omitempty"`
}

// IndexConfig controls document ingestion and index placement.
type IndexConfig struct {
	// Path is the on-disk location of the vector index database.
	Path string `toml:"path"`

	// Manual is the default source document indexed by `askdoc index`
	// when no path argument is given.
	Manual string `toml:"manual,omitempty"`

	// ChunkSize is the target chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the trailing overlap carried between chunks.
	ChunkOverlap int `toml:"chunk_overlap"`
}

// RetrievalConfig controls how evidence is selected at question time.
type RetrievalConfig struct {
	// K is the maximum number of chunks retrieved per question.
	K int `toml:"k"`

	// ScoreThreshold drops chunks scoring strictly below it. Scores are
	// normalised cosine similarity in [0, 1].
	ScoreThreshold float64 `toml:"score_threshold"`
}

// DefaultConfig returns the configuration used when no file exists.
// Paths are resolved relative to configDir.
func DefaultConfig(configDir string) Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider: "openai",
		},
		LLM: LLMConfig{
			Provider: "openai",
		},
		Index: IndexConfig{
			Path:         filepath.Join(configDir, "index.db"),
			ChunkSize:    300,
			ChunkOverlap: 50,
		},
		Retrieval: RetrievalConfig{
			K:              4,
			ScoreThreshold: 0.3,
		},
	}
}

// ConfigStore persists the application configuration as a TOML file.
type ConfigStore struct {
	mu       sync.RWMutex
	dir      string
	filePath string
	cfg      Config
}

// NewConfigStore creates a TOML-based config store rooted at configDir.
// If configDir is empty, defaults to ~/.askdoc. The directory is created
// and any existing config.toml is loaded; missing fields keep defaults.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, DefaultDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		dir:      configDir,
		filePath: filepath.Join(configDir, "config.toml"),
		cfg:      DefaultConfig(configDir),
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Config returns a copy of the current configuration with environment
// fallbacks applied to API keys.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.cfg
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "anthropic":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	return cfg
}

// Update applies fn to the configuration and persists the result.
func (s *ConfigStore) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.cfg)
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return err
	}

	// Write with restricted permissions, the file may contain API keys
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file. A missing file leaves
// the defaults in place and returns os.ErrNotExist.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	cfg := DefaultConfig(s.dir)
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.cfg = cfg
	return nil
}

// Dir returns the configuration directory.
func (s *ConfigStore) Dir() string {
	return s.dir
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
