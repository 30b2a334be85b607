package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	require.NoError(t, err)
	b, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, a, KeyLength)
	assert.NotEqual(t, a, b)
}

func TestHashKey(t *testing.T) {
	h := HashKey("secret")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashKey("secret"))
	assert.NotEqual(t, h, HashKey("Secret"))
}

func TestKeyFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := KeyFromRequest(req)
	assert.ErrorIs(t, err, ErrMissingKey)

	req.Header.Set("Authorization", "Bearer abc")
	key, err := KeyFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", key)

	req.Header.Set(HeaderName, "xyz")
	key, err = KeyFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "xyz", key)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	_, err = KeyFromRequest(req)
	assert.ErrorIs(t, err, ErrMissingKey)
}
