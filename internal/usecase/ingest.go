package usecase

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"ragchat/internal/adapter/fs"
	"ragchat/internal/port"
)

// IngestUseCase feeds content into the document store, either by scraping a
// URL or by reading local document files.
type IngestUseCase struct {
	store   port.Ingestor
	scraper port.Scraper
	chunker port.Chunker
	walker  *fs.Walker
	logger  *zap.Logger
}

// NewIngestUseCase creates a new ingest use case.
func NewIngestUseCase(
	store port.Ingestor,
	scraper port.Scraper,
	chunker port.Chunker,
	walker *fs.Walker,
	logger *zap.Logger,
) *IngestUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestUseCase{
		store:   store,
		scraper: scraper,
		chunker: chunker,
		walker:  walker,
		logger:  logger,
	}
}

// IngestResult summarizes one ingestion.
type IngestResult struct {
	Source      string
	Title       string
	ChunksAdded int
	WordCount   int
	FilesRead   int
}

// IngestURL scrapes a page, chunks its content and stores the chunks.
func (u *IngestUseCase) IngestURL(url string) (*IngestResult, error) {
	u.logger.Info("ingesting URL", zap.String("url", url))

	article, err := u.scraper.Scrape(url)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape %s: %w", url, err)
	}
	if article.Content == "" {
		return nil, fmt.Errorf("no content extracted from %s", url)
	}

	chunks := u.chunker.Chunk(article.Content, article.URL, article.Title)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks created from %s", url)
	}

	if err := u.store.AddDocuments(chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	return &IngestResult{
		Source:      url,
		Title:       article.Title,
		ChunksAdded: len(chunks),
		WordCount:   article.WordCount,
	}, nil
}

// ProgressFunc reports ingestion progress: files processed so far out of
// total, and the file just finished.
type ProgressFunc func(processed, total int, path string)

// IngestDir walks root for document files and stores their chunks, one batch
// per file. progress may be nil.
func (u *IngestUseCase) IngestDir(root string, progress ProgressFunc) (*IngestResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no document files found under %s", root)
	}

	result := &IngestResult{Source: root}
	for i, path := range files {
		content, err := fs.ReadFile(path)
		if err != nil {
			u.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}

		chunks := u.chunker.Chunk(content, path, filepath.Base(path))
		if len(chunks) == 0 {
			continue
		}
		if err := u.store.AddDocuments(chunks); err != nil {
			return result, fmt.Errorf("failed to store chunks from %s: %w", path, err)
		}

		result.FilesRead++
		result.ChunksAdded += len(chunks)
		if progress != nil {
			progress(i+1, len(files), path)
		}
	}

	if result.ChunksAdded == 0 {
		return result, fmt.Errorf("no chunks created from files under %s", root)
	}
	return result, nil
}
