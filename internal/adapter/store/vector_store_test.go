package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/adapter/embedding"
	"ragchat/internal/adapter/index"
	"ragchat/internal/domain"
)

const testDim = 384

func testOptions(t *testing.T, dir string) Options {
	t.Helper()
	return Options{
		IndexPath: filepath.Join(dir, "index.bin"),
		LogPath:   filepath.Join(dir, "docs.db"),
		Embedder:  embedding.NewMockEmbedder(testDim),
	}
}

func openTestStore(t *testing.T, dir string) *DocumentStore {
	t.Helper()
	st, err := Open(testOptions(t, dir))
	require.NoError(t, err)
	return st
}

func sampleChunks() []domain.Chunk {
	return []domain.Chunk{
		{
			Text:  "Machine learning is a subset of artificial intelligence that focuses on algorithms.",
			URL:   "https://cloud.google.com/learn/artificial-intelligence-vs-machine-learning",
			Title: "Machine Learning Basics",
		},
		{
			Text:  "Deep learning uses neural networks with multiple layers to learn complex patterns.",
			URL:   "https://www.ibm.com/think/topics/deep-learning",
			Title: "Deep Learning Guide",
		},
	}
}

func TestAddDocumentsAssignsPositions(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments(sampleChunks()))

	stats := st.Stats()
	assert.Equal(t, 2, stats.TotalVectors)
	assert.Equal(t, testDim, stats.Dimension)

	records := st.Records()
	require.Len(t, records, 2)
	for i, rec := range records {
		assert.Equal(t, i, rec.VectorIndex)
		assert.NotEmpty(t, rec.ChunkID)
	}
	assert.Equal(t, domain.DeriveChunkID(records[0].URL, records[0].Text), records[0].ChunkID)
}

func TestAddDocumentsEmptyBatchIsNoOp(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments(nil))
	assert.Equal(t, 0, st.Stats().TotalVectors)
}

func TestAddDocumentsPreservesCallerChunkID(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments([]domain.Chunk{
		{Text: "some text", ChunkID: "caller-supplied"},
	}))

	records := st.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "caller-supplied", records[0].ChunkID)
}

func TestAddDocumentsGrowsByBatchSize(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments(sampleChunks()))
	before := st.Stats().TotalVectors

	batch := []domain.Chunk{
		{Text: "Gradient descent minimizes a loss function step by step."},
		{Text: "Backpropagation computes gradients through the network."},
		{Text: "Overfitting happens when a model memorizes training noise."},
	}
	require.NoError(t, st.AddDocuments(batch))

	assert.Equal(t, before+len(batch), st.Stats().TotalVectors)
	records := st.Records()
	for i, rec := range records {
		assert.Equal(t, i, rec.VectorIndex)
	}
}

func TestReloadYieldsSameState(t *testing.T) {
	dir := t.TempDir()

	st := openTestStore(t, dir)
	require.NoError(t, st.AddDocuments(sampleChunks()))
	statsBefore := st.Stats()
	recordsBefore := st.Records()
	require.NoError(t, st.Close())

	st = openTestStore(t, dir)
	defer st.Close()

	assert.Equal(t, statsBefore, st.Stats())
	assert.Equal(t, recordsBefore, st.Records())
}

func TestSearchSimilarOrderedAndBounded(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments(sampleChunks()))
	require.NoError(t, st.AddDocuments([]domain.Chunk{
		{Text: "Bread baking needs flour, water, salt and yeast."},
	}))

	results := st.SearchSimilar("machine learning algorithms", 2)
	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 2)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearchSimilarKLargerThanCount(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments(sampleChunks()))

	results := st.SearchSimilar("anything", 50)
	assert.Len(t, results, 2)
}

func TestSearchSimilarEmptyStore(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	assert.Empty(t, st.SearchSimilar("anything", 5))
}

func TestSearchSimilarRecomputesID(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments([]domain.Chunk{
		{Text: "some text", URL: "https://example.com/a", ChunkID: "caller-supplied"},
	}))

	results := st.SearchSimilar("some text", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "caller-supplied", results[0].ChunkID)
	assert.Equal(t, domain.DeriveChunkID("https://example.com/a", "some text"), results[0].ID)
}

func TestEndToEndScenario(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	chunks := sampleChunks()
	require.NoError(t, st.AddDocuments(chunks))

	stats := st.Stats()
	assert.Equal(t, 2, stats.TotalVectors)
	assert.Equal(t, testDim, stats.Dimension)

	results := st.SearchSimilar("What is machine learning?", 1)
	require.Len(t, results, 1)
	assert.Equal(t, chunks[0].Text, results[0].Text)
	assert.Equal(t, chunks[0].URL, results[0].URL)
	assert.Equal(t, chunks[0].Title, results[0].Title)
}

func TestDeleteAll(t *testing.T) {
	dir := t.TempDir()
	st := openTestStore(t, dir)
	defer st.Close()

	require.NoError(t, st.AddDocuments(sampleChunks()))
	require.NoError(t, st.DeleteAll())

	assert.Equal(t, 0, st.Stats().TotalVectors)
	assert.Empty(t, st.SearchSimilar("anything", 5))
	assert.Empty(t, st.Records())
}

func TestDeleteAllSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	st := openTestStore(t, dir)
	require.NoError(t, st.AddDocuments(sampleChunks()))
	require.NoError(t, st.DeleteAll())
	require.NoError(t, st.Close())

	st = openTestStore(t, dir)
	defer st.Close()
	assert.Equal(t, 0, st.Stats().TotalVectors)
}

func TestAddDeleteAddRestartsPositions(t *testing.T) {
	st := openTestStore(t, t.TempDir())
	defer st.Close()

	require.NoError(t, st.AddDocuments(sampleChunks()))
	require.NoError(t, st.DeleteAll())
	require.NoError(t, st.AddDocuments([]domain.Chunk{
		{Text: "A fresh start after clearing the store."},
	}))

	records := st.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].VectorIndex)
	assert.Equal(t, 1, st.Stats().TotalVectors)
}

func TestOpenRejectsPartialPresence(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)

	st, err := Open(opts)
	require.NoError(t, err)
	require.NoError(t, st.AddDocuments(sampleChunks()))
	require.NoError(t, st.Close())

	require.NoError(t, removeIfExists(opts.IndexPath))

	_, err = Open(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestOpenRejectsCountMismatch(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)

	st, err := Open(opts)
	require.NoError(t, err)
	require.NoError(t, st.AddDocuments(sampleChunks()))
	require.NoError(t, st.Close())

	// Overwrite the index file with one holding a single vector.
	short, err := index.New(testDim)
	require.NoError(t, err)
	require.NoError(t, short.Add([][]float32{make([]float32, testDim)}))
	require.NoError(t, short.WriteFile(opts.IndexPath))

	_, err = Open(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestRebuildIndexRecoversCorruptState(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)

	st, err := Open(opts)
	require.NoError(t, err)
	chunks := sampleChunks()
	require.NoError(t, st.AddDocuments(chunks))
	require.NoError(t, st.Close())

	require.NoError(t, removeIfExists(opts.IndexPath))
	_, err = Open(opts)
	require.ErrorIs(t, err, ErrCorruptState)

	n, err := RebuildIndex(opts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	st, err = Open(opts)
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, 2, st.Stats().TotalVectors)
	results := st.SearchSimilar("What is machine learning?", 1)
	require.Len(t, results, 1)
	assert.Equal(t, chunks[0].Text, results[0].Text)
}

func TestRebuildIndexWithoutLog(t *testing.T) {
	opts := testOptions(t, t.TempDir())
	_, err := RebuildIndex(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptState)
}

// failingEmbedder reports the mock dimension but refuses every batch.
type failingEmbedder struct {
	dim int
}

func (e *failingEmbedder) Embed(texts []string) ([][]float32, error) {
	return nil, errors.New("model unavailable")
}
func (e *failingEmbedder) Dimension() int    { return e.dim }
func (e *failingEmbedder) ModelName() string { return "failing" }

func TestAddDocumentsEmbeddingFailure(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)
	opts.Embedder = &failingEmbedder{dim: testDim}

	st, err := Open(opts)
	require.NoError(t, err)
	defer st.Close()

	err = st.AddDocuments(sampleChunks())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbedding)

	// The failed batch must not leave index and log inconsistent.
	assert.Equal(t, 0, st.Stats().TotalVectors)
	assert.Empty(t, st.Records())
}

// shortEmbedder returns fewer vectors than texts.
type shortEmbedder struct {
	dim int
}

func (e *shortEmbedder) Embed(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return [][]float32{make([]float32, e.dim)}, nil
}
func (e *shortEmbedder) Dimension() int    { return e.dim }
func (e *shortEmbedder) ModelName() string { return "short" }

func TestAddDocumentsMalformedEmbedderOutput(t *testing.T) {
	opts := testOptions(t, t.TempDir())
	opts.Embedder = &shortEmbedder{dim: testDim}

	st, err := Open(opts)
	require.NoError(t, err)
	defer st.Close()

	err = st.AddDocuments(sampleChunks())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbedding)
	assert.Equal(t, 0, st.Stats().TotalVectors)
}

// wrongDimEmbedder claims one dimension but emits another, which the index
// must reject without mutating.
type wrongDimEmbedder struct {
	dim int
}

func (e *wrongDimEmbedder) Embed(texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, e.dim/2)
	}
	return out, nil
}
func (e *wrongDimEmbedder) Dimension() int    { return e.dim }
func (e *wrongDimEmbedder) ModelName() string { return "wrong-dim" }

func TestAddDocumentsIndexFailure(t *testing.T) {
	opts := testOptions(t, t.TempDir())
	opts.Embedder = &wrongDimEmbedder{dim: testDim}

	st, err := Open(opts)
	require.NoError(t, err)
	defer st.Close()

	err = st.AddDocuments(sampleChunks())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndex)
	assert.Equal(t, 0, st.Stats().TotalVectors)
	assert.Empty(t, st.Records())
}

func TestSearchSimilarSwallowsEmbeddingFailure(t *testing.T) {
	opts := testOptions(t, t.TempDir())
	opts.Embedder = &failingEmbedder{dim: testDim}

	st, err := Open(opts)
	require.NoError(t, err)
	defer st.Close()

	assert.Empty(t, st.SearchSimilar("anything", 5))
}
