package store

import "errors"

// Failure kinds surfaced by the store. Every public operation wraps its cause
// in exactly one of these so callers can tell an embedding problem from a
// disk problem with errors.Is.
var (
	// ErrEmbedding covers the embedding function raising or returning
	// malformed output (wrong count, wrong width).
	ErrEmbedding = errors.New("embedding failure")

	// ErrIndex covers the vector index rejecting an add or search.
	ErrIndex = errors.New("vector index failure")

	// ErrPersistence covers file writes and removals failing.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorruptState covers persisted artifacts that disagree on load:
	// one file missing, or record count not matching vector count.
	// Recovery requires an operator decision (rebuild or clear), never a
	// silent reinitialization.
	ErrCorruptState = errors.New("corrupt persisted state")
)
