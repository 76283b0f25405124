package chunker

import (
	"strings"
	"unicode"

	"ragchat/internal/domain"
)

// TextChunker splits prose into overlapping chunks along sentence boundaries,
// so no chunk cuts a sentence in half.
type TextChunker struct {
	chunkWords   int
	overlapWords int
}

// NewTextChunker creates a chunker with the given word budget per chunk and
// approximate word overlap between consecutive chunks.
func NewTextChunker(chunkWords, overlapWords int) *TextChunker {
	if chunkWords <= 0 {
		chunkWords = 500
	}
	if overlapWords < 0 {
		overlapWords = 0
	}
	return &TextChunker{chunkWords: chunkWords, overlapWords: overlapWords}
}

// Chunk splits text into chunks carrying the source URL and title. The chunk
// id is left empty; the store derives one at insertion time.
func (c *TextChunker) Chunk(text, url, title string) []domain.Chunk {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	var current []string
	currentWords := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Text:  strings.Join(current, " "),
			URL:   url,
			Title: title,
		})
	}

	for _, sentence := range sentences {
		words := len(strings.Fields(sentence))
		if currentWords > 0 && currentWords+words > c.chunkWords {
			flush()
			overlap := c.overlapSentences(current)
			current = append(append([]string(nil), overlap...), sentence)
			currentWords = countWords(current)
		} else {
			current = append(current, sentence)
			currentWords += words
		}
	}
	flush()

	return chunks
}

// overlapSentences returns the trailing sentences of a chunk that fit the
// overlap budget, oldest first.
func (c *TextChunker) overlapSentences(sentences []string) []string {
	if c.overlapWords == 0 {
		return nil
	}
	words := 0
	i := len(sentences)
	for i > 0 && words < c.overlapWords {
		words += len(strings.Fields(sentences[i-1]))
		i--
	}
	return sentences[i:]
}

// splitSentences breaks text at terminal punctuation followed by whitespace.
// Good enough for article prose; this is not a linguistic tokenizer.
func splitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		sb.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(sb.String()); s != "" {
					sentences = append(sentences, s)
				}
				sb.Reset()
			}
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func countWords(sentences []string) int {
	n := 0
	for _, s := range sentences {
		n += len(strings.Fields(s))
	}
	return n
}
