package webutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// GenerateHash returns the SHA-256 hash of the input bytes as a hex string.
// Used to fingerprint uploaded book files for duplicate detection.
func GenerateHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
