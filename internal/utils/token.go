package utils // package utils provides helper functions for credential generation

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding for token keys
)

// NewTokenKey returns a 40-character hex credential generated from 20
// bytes of cryptographically secure random data. Keys of this shape back
// the opaque API tokens: unguessable, constant length, safe to place in
// an Authorization header.
func NewTokenKey() (string, error) {
	return randomHex(20) // 20 bytes -> 40 hex chars
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data. If the random number generator
// fails, an error is returned.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
