package usecase

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ragchat/internal/domain"
	"ragchat/internal/port"
)

const answerSystemPrompt = `You are a helpful AI assistant that answers questions based on the provided context.

Guidelines:
- Use ONLY the information provided in the context to answer questions
- If the context doesn't contain enough information, say so clearly
- Be accurate and cite specific details from the context
- Provide comprehensive answers but stay focused on the question
- Be conversational and helpful in your tone`

const emptyStoreReply = "I don't have enough information to answer your question. Please add some relevant content to my knowledge base first."

const snippetLen = 200

// ChatUseCase answers questions grounded in the document store: retrieve the
// most similar chunks, hand them to the language model as context, and return
// the answer with its sources.
type ChatUseCase struct {
	searcher port.Searcher
	llm      port.LLM
	topK     int
	logger   *zap.Logger
}

// NewChatUseCase creates a new chat use case. topK bounds how many retrieved
// chunks feed the prompt.
func NewChatUseCase(searcher port.Searcher, llm port.LLM, topK int, logger *zap.Logger) *ChatUseCase {
	if topK <= 0 {
		topK = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatUseCase{
		searcher: searcher,
		llm:      llm,
		topK:     topK,
		logger:   logger,
	}
}

// Ask retrieves context for the question and generates a grounded answer.
func (u *ChatUseCase) Ask(question string) (*domain.ChatAnswer, error) {
	start := time.Now()

	results := u.searcher.SearchSimilar(question, u.topK)
	retrieval := time.Since(start)

	if len(results) == 0 {
		return &domain.ChatAnswer{
			Response:      emptyStoreReply,
			RetrievalTime: roundSeconds(retrieval),
			TotalTime:     roundSeconds(retrieval),
		}, nil
	}

	var contextParts []string
	sources := make([]domain.Source, 0, len(results))
	for i, r := range results {
		contextParts = append(contextParts, fmt.Sprintf("Context %d: %s", i+1, r.Text))
		sources = append(sources, domain.Source{
			Title:   r.Title,
			URL:     r.URL,
			Score:   r.Score,
			Snippet: snippet(r.Text),
		})
	}

	userPrompt := fmt.Sprintf(`Context:
%s

Question: %s

Please provide a detailed answer based on the context above. If the context doesn't contain sufficient information to answer the question, please say so clearly.`,
		strings.Join(contextParts, "\n\n"), question)

	genStart := time.Now()
	response, err := u.llm.GenerateWithSystem(answerSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	generation := time.Since(genStart)

	u.logger.Info("answered question",
		zap.Int("context_used", len(results)),
		zap.Duration("retrieval", retrieval),
		zap.Duration("generation", generation))

	return &domain.ChatAnswer{
		Response:       strings.TrimSpace(response),
		Sources:        sources,
		ContextUsed:    len(results),
		RetrievalTime:  roundSeconds(retrieval),
		GenerationTime: roundSeconds(generation),
		TotalTime:      roundSeconds(time.Since(start)),
	}, nil
}

func snippet(text string) string {
	if len(text) <= snippetLen {
		return text
	}
	return text[:snippetLen] + "..."
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Round(time.Millisecond)) / float64(time.Second)
}
