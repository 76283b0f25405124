package embedding

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const maxBatchSize = 100

// OpenAIEmbedder generates embeddings through an OpenAI-compatible API.
// Groq, Jina and Ollama endpoints all speak this protocol, so the base URL
// selects the provider.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
}

// NewOpenAIEmbedder creates an embedder reading the API key from the given
// environment variable. An empty baseURL targets api.openai.com.
func NewOpenAIEmbedder(apiKeyEnv, model, baseURL string, dimension int) (*OpenAIEmbedder, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if dimension <= 0 {
		dimension = defaultDimension(model)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		dimension: dimension,
	}, nil
}

// NewOllamaEmbedder targets a local Ollama server, which accepts any API key.
func NewOllamaEmbedder(model, baseURL string, dimension int) (*OpenAIEmbedder, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	if dimension <= 0 {
		dimension = defaultDimension(model)
	}

	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = baseURL

	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed generates embeddings for the given texts, batching API calls.
func (e *OpenAIEmbedder) Embed(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := e.client.CreateEmbeddings(context.Background(), openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("API returned %d embeddings, expected %d", len(resp.Data), len(batch))
		}

		// Responses may arrive out of order; Index restores input order.
		ordered := make([][]float32, len(batch))
		for _, data := range resp.Data {
			if data.Index < 0 || data.Index >= len(ordered) {
				return nil, fmt.Errorf("API returned embedding index %d outside batch of %d", data.Index, len(batch))
			}
			ordered[data.Index] = data.Embedding
		}
		for j, emb := range ordered {
			if len(emb) != e.dimension {
				return nil, fmt.Errorf("embedding %d has dimension %d, expected %d", i+j, len(emb), e.dimension)
			}
		}
		all = append(all, ordered...)
	}

	return all, nil
}

// Dimension returns the embedding vector dimension.
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// ModelName returns the name of the embedding model.
func (e *OpenAIEmbedder) ModelName() string { return e.model }

func defaultDimension(model string) int {
	switch model {
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	case "text-embedding-3-large":
		return 3072
	case "nomic-embed-text":
		return 768
	case "mxbai-embed-large":
		return 1024
	case "all-minilm":
		return 384
	default:
		return 1536
	}
}
