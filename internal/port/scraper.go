package port

import "ragchat/internal/domain"

// Scraper fetches and extracts article content from a URL.
type Scraper interface {
	Scrape(url string) (domain.Article, error)
}

// Chunker splits article content into ingestible chunks carrying the
// article's provenance metadata.
type Chunker interface {
	Chunk(text, url, title string) []domain.Chunk
}
