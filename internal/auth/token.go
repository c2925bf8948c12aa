package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateToken returns an opaque random session token
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
