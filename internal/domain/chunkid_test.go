package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveChunkIDDeterministic(t *testing.T) {
	a := DeriveChunkID("https://example.com/docs/ml", "machine learning basics")
	b := DeriveChunkID("https://example.com/docs/ml", "machine learning basics")
	assert.Equal(t, a, b)
}

func TestDeriveChunkIDDistinguishesText(t *testing.T) {
	a := DeriveChunkID("https://example.com/docs", "first chunk")
	b := DeriveChunkID("https://example.com/docs", "second chunk")
	assert.NotEqual(t, a, b)
}

func TestDeriveChunkIDFlattensSource(t *testing.T) {
	id := DeriveChunkID("https://example.com/a/b", "text")
	assert.True(t, strings.HasPrefix(id, "example.com_a_b_"), id)
	assert.NotContains(t, id, "/")

	id = DeriveChunkID("http://example.com/a", "text")
	assert.True(t, strings.HasPrefix(id, "example.com_a_"), id)
}

func TestDeriveChunkIDEmptySource(t *testing.T) {
	id := DeriveChunkID("", "text")
	assert.True(t, strings.HasPrefix(id, DefaultSource+"_"), id)
}

func TestDeriveChunkIDHashLength(t *testing.T) {
	id := DeriveChunkID("example.com", "text")
	parts := strings.Split(id, "_")
	assert.Len(t, parts[len(parts)-1], 8)
}
