package store

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"ragchat/internal/adapter/index"
	"ragchat/internal/domain"
	"ragchat/internal/port"
)

// DefaultTopK is the result limit used when a caller passes a non-positive k.
const DefaultTopK = 5

// DocumentStore maps text chunks to embedding vectors and answers
// nearest-neighbor queries over them. It keeps a vector index and a metadata
// log in lock-step: for every position i, log record i describes exactly the
// vector at position i. Both are persisted after every successful mutation.
//
// The store is safe for concurrent use, but it is a single-writer design:
// mutations serialize on an internal lock and there is no cross-process
// coordination.
type DocumentStore struct {
	mu       sync.RWMutex
	embedder port.Embedder
	index    port.VectorIndex
	records  []domain.StoredRecord
	log      *DocLog

	indexPath string
	logPath   string
	dim       int
	logger    *zap.Logger
}

// Options configures a DocumentStore.
type Options struct {
	// IndexPath and LogPath locate the two persisted artifacts. They are
	// read and written together; the store refuses to start if only one
	// exists.
	IndexPath string
	LogPath   string

	Embedder port.Embedder
	Logger   *zap.Logger
}

// Open loads the persisted index and document log, or initializes both empty
// when neither file exists. Exactly one file present, or a record count that
// disagrees with the vector count, is reported as ErrCorruptState: the store
// never silently drops or reinvents data on startup.
func Open(opts Options) (*DocumentStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dim := opts.Embedder.Dimension()

	indexExists, err := fileExists(opts.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat index file: %v", ErrPersistence, err)
	}
	logExists, err := fileExists(opts.LogPath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat document log: %v", ErrPersistence, err)
	}
	if indexExists != logExists {
		return nil, fmt.Errorf("%w: index file present=%v but document log present=%v; recover with rebuild or clear",
			ErrCorruptState, indexExists, logExists)
	}

	var idx *index.Flat
	if indexExists {
		idx, err = index.OpenFile(opts.IndexPath)
		if err != nil {
			return nil, fmt.Errorf("%w: load index file: %v", ErrCorruptState, err)
		}
		if idx.Dimension() != dim {
			return nil, fmt.Errorf("%w: index dimension %d does not match embedding dimension %d",
				ErrCorruptState, idx.Dimension(), dim)
		}
	} else {
		idx, err = index.New(dim)
		if err != nil {
			return nil, err
		}
		// Write the empty index up front so both artifacts exist from
		// the first start onward.
		if err := idx.WriteFile(opts.IndexPath); err != nil {
			return nil, fmt.Errorf("%w: write index file: %v", ErrPersistence, err)
		}
	}

	log, err := OpenDocLog(opts.LogPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	records, err := log.All()
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("%w: read document log: %v", ErrCorruptState, err)
	}
	if len(records) != idx.Count() {
		log.Close()
		return nil, fmt.Errorf("%w: document log has %d records but index has %d vectors; recover with rebuild or clear",
			ErrCorruptState, len(records), idx.Count())
	}
	for i, rec := range records {
		if rec.VectorIndex != i {
			log.Close()
			return nil, fmt.Errorf("%w: record at log position %d carries vector_index %d",
				ErrCorruptState, i, rec.VectorIndex)
		}
	}

	if len(records) > 0 {
		logger.Info("loaded existing vector store",
			zap.Int("records", len(records)),
			zap.Int("dimension", dim))
	} else {
		logger.Info("initialized empty vector store", zap.Int("dimension", dim))
	}

	return &DocumentStore{
		embedder:  opts.Embedder,
		index:     idx,
		records:   records,
		log:       log,
		indexPath: opts.IndexPath,
		logPath:   opts.LogPath,
		dim:       dim,
		logger:    logger,
	}, nil
}

// AddDocuments embeds a batch of chunks and appends them to the index and
// the log in matching order, then persists both artifacts. Empty input is a
// no-op. On failure the previous durable state stays untouched and the
// in-memory index and log remain consistent with each other, though a
// persistence failure can leave memory ahead of disk until the next
// successful write.
func (s *DocumentStore) AddDocuments(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.Embed(texts)
	if err != nil {
		s.logger.Error("failed to embed batch", zap.Int("chunks", len(chunks)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(vectors) != len(chunks) {
		s.logger.Error("embedder returned wrong vector count",
			zap.Int("want", len(chunks)), zap.Int("got", len(vectors)))
		return fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbedding, len(vectors), len(chunks))
	}

	if err := s.index.Add(vectors); err != nil {
		s.logger.Error("index rejected vectors", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}

	base := len(s.records)
	batch := make([]domain.StoredRecord, len(chunks))
	for i, c := range chunks {
		chunkID := c.ChunkID
		if chunkID == "" {
			chunkID = domain.DeriveChunkID(c.URL, c.Text)
		}
		batch[i] = domain.StoredRecord{
			Text:        c.Text,
			URL:         c.URL,
			Title:       c.Title,
			ChunkID:     chunkID,
			VectorIndex: base + i,
		}
	}
	s.records = append(s.records, batch...)

	if err := s.log.Append(batch); err != nil {
		s.logger.Error("failed to persist document log", zap.Error(err))
		return fmt.Errorf("%w: append document log: %v", ErrPersistence, err)
	}
	if err := s.index.WriteFile(s.indexPath); err != nil {
		s.logger.Error("failed to persist index", zap.Error(err))
		return fmt.Errorf("%w: write index file: %v", ErrPersistence, err)
	}

	s.logger.Info("added documents",
		zap.Int("chunks", len(chunks)),
		zap.Int("total_vectors", s.index.Count()))
	return nil
}

// SearchSimilar embeds the query and returns up to topK records ordered by
// ascending L2 distance. A non-positive topK falls back to DefaultTopK.
// Failures are logged and yield an empty result set instead of an error.
func (s *DocumentStore) SearchSimilar(query string, topK int) []domain.SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	vectors, err := s.embedder.Embed([]string{query})
	if err != nil || len(vectors) != 1 {
		s.logger.Warn("failed to embed query", zap.Error(err))
		return nil
	}

	distances, positions, err := s.index.Search(vectors[0], topK)
	if err != nil {
		s.logger.Warn("vector search failed", zap.Error(err))
		return nil
	}

	results := make([]domain.SearchResult, 0, len(positions))
	for i, pos := range positions {
		// Guard against sentinel or out-of-range positions from an
		// under-filled index.
		if pos < 0 || pos >= len(s.records) {
			continue
		}
		rec := s.records[pos]
		results = append(results, domain.SearchResult{
			ID:      domain.DeriveChunkID(rec.URL, rec.Text),
			Score:   float64(distances[i]),
			Text:    rec.Text,
			URL:     rec.URL,
			Title:   rec.Title,
			ChunkID: rec.ChunkID,
		})
	}

	s.logger.Debug("similarity search",
		zap.String("query", truncate(query, 50)),
		zap.Int("results", len(results)))
	return results
}

// Stats reports the current vector count and configured dimension.
func (s *DocumentStore) Stats() domain.IndexStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IndexStats{
		TotalVectors: s.index.Count(),
		Dimension:    s.dim,
	}
}

// DeleteAll removes the on-disk artifacts first and only then resets the
// in-memory index and log, so a removal failure never leaves memory claiming
// less than what disk still holds. Fresh empty artifacts are written back so
// the next start finds both files present.
func (s *DocumentStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.log.Close(); err != nil {
		return fmt.Errorf("%w: close document log: %v", ErrPersistence, err)
	}
	if err := removeIfExists(s.logPath); err != nil {
		s.reopenLog()
		return fmt.Errorf("%w: remove document log: %v", ErrPersistence, err)
	}
	if err := removeIfExists(s.indexPath); err != nil {
		s.reopenLog()
		return fmt.Errorf("%w: remove index file: %v", ErrPersistence, err)
	}

	s.index.Reset()
	s.records = nil

	log, err := OpenDocLog(s.logPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.log = log
	if err := s.index.WriteFile(s.indexPath); err != nil {
		return fmt.Errorf("%w: write index file: %v", ErrPersistence, err)
	}

	s.logger.Info("deleted all vectors and documents")
	return nil
}

// Rebuild re-embeds every logged text into a fresh index and persists it.
// This is the operator recovery path for an index file that fell out of step
// with the document log; it is also the only form of compaction the store
// supports.
func (s *DocumentStore) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	texts := make([]string, len(s.records))
	for i, rec := range s.records {
		texts[i] = rec.Text
	}

	vectors, err := s.embedder.Embed(texts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbedding, len(vectors), len(texts))
	}

	fresh, err := index.New(s.dim)
	if err != nil {
		return err
	}
	if err := fresh.Add(vectors); err != nil {
		return fmt.Errorf("%w: %v", ErrIndex, err)
	}
	if err := fresh.WriteFile(s.indexPath); err != nil {
		return fmt.Errorf("%w: write index file: %v", ErrPersistence, err)
	}

	s.index = fresh
	s.logger.Info("rebuilt index from document log", zap.Int("records", len(s.records)))
	return nil
}

// Records returns a copy of the metadata log in order.
func (s *DocumentStore) Records() []domain.StoredRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.StoredRecord(nil), s.records...)
}

// Close closes the underlying log file.
func (s *DocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Close()
}

func (s *DocumentStore) reopenLog() {
	log, err := OpenDocLog(s.logPath)
	if err != nil {
		s.logger.Error("failed to reopen document log", zap.Error(err))
		return
	}
	s.log = log
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
