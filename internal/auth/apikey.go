package auth

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/blake2b"
)

// KeyLength is the number of characters in a generated API key secret.
const KeyLength = 40

// HeaderName is the header clients use to present an API key.
const HeaderName = "X-API-Key"

// ErrMissingKey is returned by KeyFromRequest when no key was presented.
var ErrMissingKey = errors.New("api key is required")

// GenerateKey returns a new random API key secret. The secret is shown to
// the caller once; only its digest is stored.
func GenerateKey() (string, error) {
	return gonanoid.New(KeyLength)
}

// HashKey returns the hex encoded BLAKE2b-256 digest of an API key secret.
// Keys are long random strings, so a fast unsalted digest is enough to keep
// them out of the database while still allowing an indexed lookup.
func HashKey(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// KeyFromRequest extracts the API key from the X-API-Key header, falling back
// to an "Authorization: Bearer <key>" header.
func KeyFromRequest(r *http.Request) (string, error) {
	if key := strings.TrimSpace(r.Header.Get(HeaderName)); key != "" {
		return key, nil
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1], nil
	}

	return "", ErrMissingKey
}
