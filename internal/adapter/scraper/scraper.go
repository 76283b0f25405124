package scraper

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"ragchat/internal/domain"
)

// Container elements stripped before content extraction: boilerplate that
// would otherwise pollute the knowledge base.
var skippedTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
	"aside":  true,
}

// Blocks shorter than this are treated as navigation or ad fragments.
const minBlockLen = 20

// WebScraper fetches article pages and extracts their readable content.
type WebScraper struct {
	client    *http.Client
	delay     time.Duration
	userAgent string
}

// New creates a scraper. delay is slept after every fetch to stay polite
// toward the origin server.
func New(timeout, delay time.Duration, userAgent string) *WebScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	return &WebScraper{
		client:    &http.Client{Timeout: timeout},
		delay:     delay,
		userAgent: userAgent,
	}
}

// Scrape fetches the URL and returns its title and cleaned article text.
func (s *WebScraper) Scrape(rawURL string) (domain.Article, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Article{}, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Article{}, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Article{}, fmt.Errorf("fetch returned status %d for %s", resp.StatusCode, rawURL)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	content := cleanBlocks(extractBlocks(doc))
	return domain.Article{
		URL:       rawURL,
		Title:     extractTitle(doc),
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}, nil
}

// extractTitle prefers the first non-empty h1, then the document title.
func extractTitle(doc *html.Node) string {
	if h1 := findElement(doc, "h1"); h1 != nil {
		if t := strings.TrimSpace(nodeText(h1)); t != "" {
			return t
		}
	}
	if title := findElement(doc, "title"); title != nil {
		return strings.TrimSpace(nodeText(title))
	}
	return ""
}

// extractBlocks returns candidate text blocks: paragraphs inside the main
// article container if one exists, otherwise every paragraph in the page.
func extractBlocks(doc *html.Node) []string {
	root := doc
	for _, container := range []string{"article", "main"} {
		if n := findElement(doc, container); n != nil {
			root = n
			break
		}
	}

	var blocks []string
	for _, p := range findAllElements(root, "p") {
		blocks = append(blocks, nodeText(p))
	}
	if len(blocks) == 0 && root != doc {
		blocks = append(blocks, nodeText(root))
	}
	return blocks
}

// cleanBlocks collapses whitespace and drops fragments too short to be prose.
func cleanBlocks(blocks []string) string {
	var kept []string
	for _, b := range blocks {
		b = strings.Join(strings.Fields(b), " ")
		if len(b) >= minBlockLen {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, " ")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAllElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAllElements(c, tag)...)
	}
	return out
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && skippedTags[n.Data] {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
		sb.WriteString(" ")
	}
	return sb.String()
}
