// Package hasher computes content addresses for deduplicated blocks.
//
// The digest algorithm is BLAKE2b-256 and is part of the stored data
// format: every block is keyed by its digest, so changing the
// algorithm (or its rendering) invalidates deduplication against all
// previously written stores and must be treated as a breaking format
// change.
package hasher

import (
	"encoding/hex"

	blake2b "github.com/minio/blake2b-simd"
	"github.com/scode/shastity/pkg/bytebuf"
)

const (
	// Size of a digest in bytes
	Size = 32

	// HexLength of a rendered content address
	HexLength = 2 * Size
)

// Digest returns the content address of a buffer: the lowercase hex
// rendering of its BLAKE2b-256 digest, HexLength characters long.
func Digest(b bytebuf.Buffer) string {
	h := blake2b.New256()
	_, _ = b.WriteTo(h) // hash.Hash never errors
	return hex.EncodeToString(h.Sum(nil))
}

// ValidKey reports whether s has the shape of a content address. Keys
// that fail this test are logical names, such as manifest names.
func ValidKey(s string) bool {
	if len(s) != HexLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
