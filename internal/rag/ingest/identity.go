package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// AssignDocId derives a deterministic document id from the source file
// name and the raw content. The name participates in the hash, so the
// same bytes uploaded under two different names stay two logical
// documents. Re-ingesting the identical file yields the identical id.
func AssignDocId(sourceName string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(sourceName))
	h.Write([]byte{0})
	h.Write(content)
	digest := hex.EncodeToString(h.Sum(nil))

	return slugify(strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))) + "_" + digest[:8]
}

// ChunkID is a pure, order-preserving function of its inputs.
func ChunkID(docId string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docId, index)
}

func slugify(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
