package utils

import (
	"crypto/sha1"
	"encoding/hex"
)

// GenerateETag derives a strong validator from a response body.
func GenerateETag(body []byte) string {
	sum := sha1.Sum(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
