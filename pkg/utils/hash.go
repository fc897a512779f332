package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString returns the first 32 hex digits of the SHA-256 of input.
func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:16])
}
