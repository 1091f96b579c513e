package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// NewPassword returns a random base64url password built from n bytes of
// crypto/rand entropy.
func NewPassword(n int) (string, error) {
	if n < 16 {
		return "", errors.New("password entropy must be at least 16 bytes")
	}

	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
