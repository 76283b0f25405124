package port

import "ragchat/internal/domain"

// Ingestor accepts batches of chunks for embedding and storage.
type Ingestor interface {
	AddDocuments(chunks []domain.Chunk) error
}

// Searcher answers similarity queries over stored chunks. Failures surface as
// an empty result set, not an error.
type Searcher interface {
	SearchSimilar(query string, topK int) []domain.SearchResult
}
