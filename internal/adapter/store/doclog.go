package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"ragchat/internal/domain"
)

var bucketRecords = []byte("records")

// DocLog is the on-disk metadata log: an ordered sequence of stored records
// keyed by their vector position. bbolt iterates keys in byte order, so
// big-endian position keys come back in insertion order.
type DocLog struct {
	db   *bbolt.DB
	path string
}

// OpenDocLog opens (or creates) the log file at path.
func OpenDocLog(path string) (*DocLog, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open document log: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records bucket: %w", err)
	}

	return &DocLog{db: db, path: path}, nil
}

// Append writes a batch of records in one transaction, keyed by VectorIndex.
func (l *DocLog) Append(records []domain.StoredRecord) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put(positionKey(rec.VectorIndex), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// All returns every record in log order.
func (l *DocLog) All() ([]domain.StoredRecord, error) {
	var records []domain.StoredRecord
	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		return b.ForEach(func(k, v []byte) error {
			var rec domain.StoredRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("undecodable record at position %d: %w", positionFromKey(k), err)
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}

// Len returns the number of records in the log.
func (l *DocLog) Len() (int, error) {
	var n int
	err := l.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketRecords).Stats().KeyN
		return nil
	})
	return n, err
}

// Path returns the log file path.
func (l *DocLog) Path() string { return l.path }

// Close closes the underlying database file.
func (l *DocLog) Close() error { return l.db.Close() }

func positionKey(pos int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(pos))
	return key
}

func positionFromKey(key []byte) int {
	if len(key) != 8 {
		return -1
	}
	return int(binary.BigEndian.Uint64(key))
}
