package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
}

func TestWalkDefaultIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"))
	writeFile(t, filepath.Join(dir, "sub", "deep", "readme.txt"))
	writeFile(t, filepath.Join(dir, "data.json"))

	files, err := NewWalker(nil, nil).Walk(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(dir, "notes.md"))
	assert.Contains(t, files, filepath.Join(dir, "sub", "deep", "readme.txt"))
}

func TestWalkCustomIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page.html"))
	writeFile(t, filepath.Join(dir, "notes.md"))

	files, err := NewWalker([]string{"**/*.html"}, nil).Walk(dir)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "page.html"), files[0])
}

func TestWalkExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.md"))
	writeFile(t, filepath.Join(dir, "vendor", "skip.md"))

	files, err := NewWalker(nil, []string{"vendor/**"}).Walk(dir)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "keep.md"), files[0])
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := NewWalker(nil, nil).Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	content, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	_, err = ReadFile(path + ".missing")
	assert.Error(t, err)
}
