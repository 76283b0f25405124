package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DefaultSource is used when a chunk carries no source identifier.
const DefaultSource = "unknown"

// DeriveChunkID builds a deterministic, human-traceable identifier from a
// chunk's source and text: the source with scheme prefix and path separators
// flattened, joined to a short content hash. Same (source, text) always yields
// the same id, which makes re-ingestion of identical content detectable.
func DeriveChunkID(source, text string) string {
	if source == "" {
		source = DefaultSource
	}
	source = strings.TrimPrefix(source, "https://")
	source = strings.TrimPrefix(source, "http://")
	source = strings.ReplaceAll(source, "/", "_")

	hash := sha256.Sum256([]byte(text))
	return source + "_" + hex.EncodeToString(hash[:])[:8]
}
