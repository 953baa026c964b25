package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HashEmail hashes a normalized email so logs can correlate a user
// without carrying the address itself
func HashEmail(email string) string {
	return HashString(strings.ToLower(strings.TrimSpace(email)))[:16]
}
