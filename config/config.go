package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for ragchat.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StoreConfig locates the persisted store artifacts.
type StoreConfig struct {
	DataDir string `yaml:"data_dir"` // directory holding index + document log
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`    // OpenAI-compatible endpoint; empty = provider default
	Dimension int    `yaml:"dimension"`
}

// ChatConfig holds answer-generation configuration.
type ChatConfig struct {
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TopK        int     `yaml:"top_k"`
}

// ScraperConfig holds web scraping configuration.
type ScraperConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DelayMillis    int    `yaml:"delay_ms"` // politeness delay after each fetch
	UserAgent      string `yaml:"user_agent"`
}

// IngestConfig holds chunking and file-walking configuration.
type IngestConfig struct {
	ChunkWords   int      `yaml:"chunk_words"`
	OverlapWords int      `yaml:"overlap_words"`
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			DataDir: ".ragchat",
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
		},
		Chat: ChatConfig{
			Model:       "llama3-8b-8192",
			APIKeyEnv:   "GROQ_API_KEY",
			BaseURL:     "https://api.groq.com/openai/v1",
			MaxTokens:   1000,
			Temperature: 0.3,
			TopK:        5,
		},
		Scraper: ScraperConfig{
			TimeoutSeconds: 10,
			DelayMillis:    1000,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Ingest: IngestConfig{
			ChunkWords:   500,
			OverlapWords: 50,
			Includes:     []string{"**/*.md", "**/*.txt"},
			Excludes:     []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ragchat.yaml,
// then .ragchat/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ragchat.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".ragchat", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexPath returns the path to the serialized vector index.
func (c *Config) IndexPath(dir string) string {
	return filepath.Join(dir, c.Store.DataDir, "index.bin")
}

// DocLogPath returns the path to the document metadata log.
func (c *Config) DocLogPath(dir string) string {
	return filepath.Join(dir, c.Store.DataDir, "docs.db")
}

// EnsureDataDir ensures the data directory exists under dir.
func (c *Config) EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, c.Store.DataDir), 0755)
}
