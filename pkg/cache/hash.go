package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

var safeName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// fileName maps a namespace or key to a filesystem-safe name. Safe names are
// kept verbatim so cache directories stay human-browsable; anything else is
// replaced by its hash.
func fileName(s string) string {
	if safeName.MatchString(s) && len(s) <= 200 {
		return s
	}
	return Hash([]byte(s))
}
