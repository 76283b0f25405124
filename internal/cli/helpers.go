package cli

import (
	"fmt"
	"time"

	"ragchat/config"
	"ragchat/internal/adapter/chunker"
	"ragchat/internal/adapter/embedding"
	"ragchat/internal/adapter/fs"
	"ragchat/internal/adapter/llm"
	"ragchat/internal/adapter/scraper"
	"ragchat/internal/adapter/store"
	"ragchat/internal/port"
)

func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimension)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimension)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

func storeOptions(cfg *config.Config) (store.Options, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return store.Options{}, fmt.Errorf("failed to create embedder: %w", err)
	}
	return store.Options{
		IndexPath: cfg.IndexPath(rootDir),
		LogPath:   cfg.DocLogPath(rootDir),
		Embedder:  embedder,
		Logger:    logger,
	}, nil
}

func openStore(cfg *config.Config) (*store.DocumentStore, error) {
	if err := cfg.EnsureDataDir(rootDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	opts, err := storeOptions(cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	return st, nil
}

func buildScraper(cfg *config.Config) *scraper.WebScraper {
	return scraper.New(
		time.Duration(cfg.Scraper.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Scraper.DelayMillis)*time.Millisecond,
		cfg.Scraper.UserAgent,
	)
}

func buildChunker(cfg *config.Config) *chunker.TextChunker {
	return chunker.NewTextChunker(cfg.Ingest.ChunkWords, cfg.Ingest.OverlapWords)
}

func buildWalker(cfg *config.Config) *fs.Walker {
	return fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
}

func buildLLM(cfg *config.Config) (port.LLM, error) {
	return llm.NewOpenAIChat(cfg.Chat.APIKeyEnv, cfg.Chat.Model, cfg.Chat.BaseURL, cfg.Chat.MaxTokens, cfg.Chat.Temperature)
}
