package domain

// Chunk is a unit of ingestible text with optional provenance metadata.
// Text is required; URL, Title and ChunkID may be empty.
type Chunk struct {
	Text    string `json:"text"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	ChunkID string `json:"chunk_id,omitempty"`
}

// StoredRecord is a chunk enriched at insertion time. VectorIndex is the
// zero-based position the record occupies in both the vector index and the
// metadata log; the two sequences always have equal length and matching order.
type StoredRecord struct {
	Text        string `json:"text"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	ChunkID     string `json:"chunk_id"`
	VectorIndex int    `json:"vector_index"`
}

// SearchResult is one hit from a similarity query. Score is the raw squared
// L2 distance reported by the index; lower means more similar.
type SearchResult struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	ChunkID string  `json:"chunk_id"`
}

// IndexStats reports the current size of the vector index.
type IndexStats struct {
	TotalVectors int `json:"total_vectors"`
	Dimension    int `json:"dimension"`
}

// Article is the scraped content of a single web page.
type Article struct {
	URL       string
	Title     string
	Content   string
	WordCount int
}

// Source describes one retrieved record cited in a chat answer.
type Source struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// ChatAnswer is the result of one question against the knowledge base.
type ChatAnswer struct {
	Response       string   `json:"response"`
	Sources        []Source `json:"sources,omitempty"`
	ContextUsed    int      `json:"context_used"`
	RetrievalTime  float64  `json:"retrieval_time"`
	GenerationTime float64  `json:"generation_time"`
	TotalTime      float64  `json:"total_time"`
}
