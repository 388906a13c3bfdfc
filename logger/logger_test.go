package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"access_token", "abc",
		"Email", "a@b.c",
		"path", "/courses/1",
		"raw", "eyJhbGciOiJIUzI1NiJ9.eyJzaWQiOiIxIn0.sig",
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"access_token", "[REDACTED]",
		"Email", "[REDACTED]",
		"path", "/courses/1",
		"raw", "[REDACTED]",
		"dangling",
	}, out)
}

func TestLooksLikeJWT(t *testing.T) {
	assert.True(t, looksLikeJWT("eyJa.eyJb.c"))
	assert.False(t, looksLikeJWT("eyJa.b"))
	assert.False(t, looksLikeJWT("hello.world.again"))
}
