package webhook

import (
	"crypto/subtle"

	"github.com/zeebo/blake3"
)

// verifySecret reports whether presented matches expected. Both sides are
// hashed first so the comparison is constant-time regardless of length.
func verifySecret(presented, expected string) bool {
	if expected == "" {
		return false
	}
	got := blake3.Sum256([]byte(presented))
	want := blake3.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}
