package port

// VectorIndex is an ordered sequence of fixed-dimension vectors supporting
// nearest-neighbor search by L2 distance. Vectors are append-only; positions
// are assigned in insertion order and never reused except after Reset.
type VectorIndex interface {
	// Add appends vectors in order. Either all vectors are appended or,
	// on error (e.g. dimension mismatch), none are.
	Add(vectors [][]float32) error

	// Search returns up to k nearest vectors to the query as parallel
	// slices of squared L2 distances and insertion positions, ordered by
	// non-decreasing distance.
	Search(query []float32, k int) (distances []float32, positions []int, err error)

	// Count returns the number of stored vectors.
	Count() int

	// Dimension returns the fixed vector dimension.
	Dimension() int

	// Reset discards all vectors, keeping the dimension.
	Reset()

	// WriteFile serializes the index to the given path.
	WriteFile(path string) error
}
