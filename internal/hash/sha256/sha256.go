// Package sha256 provides SHA-256 digests for object naming.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces hex-encoded SHA-256 digests.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the full hex digest of data.
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short returns the first n bytes of the digest, hex-encoded. n is clamped
// to the digest size.
func (h *Hasher) Short(data []byte, n int) string {
	sum := sha256.Sum256(data)
	if n <= 0 || n > len(sum) {
		n = len(sum)
	}
	return hex.EncodeToString(sum[:n])
}
