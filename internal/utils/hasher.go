package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash generates a SHA-256 hash of the input string
func Hash(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Fingerprint hashes the parts into a short, stable key segment.
func Fingerprint(parts ...string) string {
	return Hash(strings.Join(parts, "\x1f"))[:16]
}
