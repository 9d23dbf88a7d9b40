package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("generates 64 character hex string", func(t *testing.T) {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, 64)
	})

	t.Run("generates unique tokens", func(t *testing.T) {
		token1, _ := GenerateToken()
		token2, _ := GenerateToken()
		assert.NotEqual(t, token1, token2)
	})

	t.Run("generates valid hex", func(t *testing.T) {
		token, _ := GenerateToken()
		for _, c := range token {
			assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'))
		}
	})
}

func TestHashToken(t *testing.T) {
	t.Run("returns 64 character hex string", func(t *testing.T) {
		hash := HashToken("test-token")
		assert.Len(t, hash, 64)
	})

	t.Run("same input produces same hash", func(t *testing.T) {
		assert.Equal(t, HashToken("test-token"), HashToken("test-token"))
	})

	t.Run("different input produces different hash", func(t *testing.T) {
		assert.NotEqual(t, HashToken("token-1"), HashToken("token-2"))
	})
}

func TestHmacSHA256(t *testing.T) {
	t.Run("returns 64 character hex string", func(t *testing.T) {
		assert.Len(t, HmacSHA256("secret", "data"), 64)
	})

	t.Run("same inputs produce same result", func(t *testing.T) {
		assert.Equal(t, HmacSHA256("secret", "data"), HmacSHA256("secret", "data"))
	})

	t.Run("different secrets produce different results", func(t *testing.T) {
		assert.NotEqual(t, HmacSHA256("secret-a", "data"), HmacSHA256("secret-b", "data"))
	})
}

func TestConstantTimeEqual(t *testing.T) {
	t.Run("equal strings match", func(t *testing.T) {
		assert.True(t, ConstantTimeEqual("abc", "abc"))
	})

	t.Run("different strings do not match", func(t *testing.T) {
		assert.False(t, ConstantTimeEqual("abc", "abd"))
		assert.False(t, ConstantTimeEqual("abc", "abcd"))
	})
}

func TestMaskEmail(t *testing.T) {
	t.Run("keeps domain and first two characters", func(t *testing.T) {
		assert.Equal(t, "ad***@example.com", MaskEmail("admin@example.com"))
	})

	t.Run("masks short local parts entirely", func(t *testing.T) {
		assert.Equal(t, "**@example.com", MaskEmail("ab@example.com"))
	})

	t.Run("masks values without an at sign", func(t *testing.T) {
		assert.Equal(t, "***", MaskEmail("not-an-email"))
	})
}
