package store

import (
	"fmt"

	"ragchat/internal/adapter/index"
	"ragchat/internal/port"
)

// RebuildIndex reconstructs the index file from the document log alone, by
// re-embedding every logged text. Unlike DocumentStore.Rebuild it does not
// require a loadable store, so it recovers states Open rejects: a missing
// index file, or one whose vector count disagrees with the log.
//
// The log is the authoritative side; the index file is overwritten.
func RebuildIndex(opts Options) (int, error) {
	logExists, err := fileExists(opts.LogPath)
	if err != nil {
		return 0, fmt.Errorf("%w: stat document log: %v", ErrPersistence, err)
	}
	if !logExists {
		return 0, fmt.Errorf("%w: document log %s does not exist; nothing to rebuild from", ErrCorruptState, opts.LogPath)
	}

	log, err := OpenDocLog(opts.LogPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer log.Close()

	records, err := log.All()
	if err != nil {
		return 0, fmt.Errorf("%w: read document log: %v", ErrCorruptState, err)
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}
	vectors, err := opts.Embedder.Embed(texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbedding, len(vectors), len(texts))
	}

	idx, err := index.New(opts.Embedder.Dimension())
	if err != nil {
		return 0, err
	}
	if err := idx.Add(vectors); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndex, err)
	}
	if err := idx.WriteFile(opts.IndexPath); err != nil {
		return 0, fmt.Errorf("%w: write index file: %v", ErrPersistence, err)
	}

	return len(records), nil
}

var _ port.VectorIndex = (*index.Flat)(nil)
