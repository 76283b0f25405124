package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// Flat is an exact brute-force vector index over fixed-dimension vectors.
// Vectors are stored in insertion order; search scans all of them and ranks
// by squared L2 distance. Append-only except for Reset.
type Flat struct {
	dim  int
	vecs [][]float32
}

// New creates an empty flat index with the given dimension.
func New(dimension int) (*Flat, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("flat: invalid dimension %d", dimension)
	}
	return &Flat{dim: dimension}, nil
}

// Add appends vectors in order. All vectors are validated before any is
// appended, so a dimension mismatch leaves the index unchanged.
func (f *Flat) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("flat: vector %d has dimension %d, index expects %d", i, len(v), f.dim)
		}
	}
	for _, v := range vectors {
		f.vecs = append(f.vecs, append([]float32(nil), v...))
	}
	return nil
}

// Search returns up to k nearest vectors to the query as parallel slices of
// squared L2 distances and insertion positions, ordered by non-decreasing
// distance. An empty index yields empty results.
func (f *Flat) Search(query []float32, k int) ([]float32, []int, error) {
	if len(query) != f.dim {
		return nil, nil, fmt.Errorf("flat: query has dimension %d, index expects %d", len(query), f.dim)
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("flat: k must be positive, got %d", k)
	}
	if len(f.vecs) == 0 {
		return nil, nil, nil
	}

	type scored struct {
		pos  int
		dist float32
	}
	scoreds := make([]scored, len(f.vecs))
	for i, v := range f.vecs {
		scoreds[i] = scored{pos: i, dist: sqDistance(query, v)}
	}
	sort.Slice(scoreds, func(a, b int) bool {
		if scoreds[a].dist != scoreds[b].dist {
			return scoreds[a].dist < scoreds[b].dist
		}
		return scoreds[a].pos < scoreds[b].pos
	})

	if k > len(scoreds) {
		k = len(scoreds)
	}
	dists := make([]float32, k)
	positions := make([]int, k)
	for i := 0; i < k; i++ {
		dists[i] = scoreds[i].dist
		positions[i] = scoreds[i].pos
	}
	return dists, positions, nil
}

// Count returns the number of stored vectors.
func (f *Flat) Count() int { return len(f.vecs) }

// Dimension returns the fixed vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Reset discards all vectors, keeping the dimension.
func (f *Flat) Reset() { f.vecs = nil }

// MarshalBinary stores: dim(uint32), n(uint32), then n*dim float32 values
// in little-endian insertion order.
func (f *Flat) MarshalBinary() ([]byte, error) {
	out := make([]byte, 8, 8+4*f.dim*len(f.vecs))
	binary.LittleEndian.PutUint32(out[0:4], uint32(f.dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(f.vecs)))
	buf := make([]byte, 4)
	for _, v := range f.vecs {
		for _, x := range v {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			out = append(out, buf...)
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes produced by MarshalBinary.
func (f *Flat) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("flat: invalid data")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	n := int(binary.LittleEndian.Uint32(data[4:8]))
	if dim <= 0 {
		return fmt.Errorf("flat: invalid dimension %d in data", dim)
	}
	if len(data) != 8+4*dim*n {
		return fmt.Errorf("flat: truncated data: have %d bytes, want %d", len(data), 8+4*dim*n)
	}
	vecs := make([][]float32, n)
	off := 8
	for i := 0; i < n; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vecs[i] = vec
	}
	f.dim = dim
	f.vecs = vecs
	return nil
}

// WriteFile serializes the index to the given path.
func (f *Flat) WriteFile(path string) error {
	data, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// OpenFile loads a flat index previously written with WriteFile.
func OpenFile(path string) (*Flat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &Flat{}
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("failed to decode index file %s: %w", path, err)
	}
	return f, nil
}

func sqDistance(a, b []float32) float32 {
	var s float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		s += d * d
	}
	return float32(s)
}
