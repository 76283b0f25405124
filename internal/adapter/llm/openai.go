package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIChat generates completions through an OpenAI-compatible chat API.
// The default base URL targets Groq; any compatible endpoint works.
type OpenAIChat struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIChat creates a chat client reading the API key from the given
// environment variable.
func NewOpenAIChat(apiKeyEnv, model, baseURL string, maxTokens int, temperature float32) (*OpenAIChat, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIChat{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

// Generate generates text based on the prompt.
func (c *OpenAIChat) Generate(prompt string) (string, error) {
	return c.complete([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

// GenerateWithSystem generates text with a system prompt.
func (c *OpenAIChat) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	return c.complete([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt},
	})
}

// ModelName returns the name of the model.
func (c *OpenAIChat) ModelName() string { return c.model }

func (c *OpenAIChat) complete(messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        0.9,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
