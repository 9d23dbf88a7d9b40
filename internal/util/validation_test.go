package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	t.Run("accepts well-formed addresses", func(t *testing.T) {
		for _, email := range []string{
			"admin@example.com",
			"first.last@sub.domain.org",
			"a+tag@b.co",
		} {
			assert.Empty(t, ValidateEmail(email), "expected %q to be valid", email)
		}
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		for _, email := range []string{
			"",
			"admin",
			"admin@",
			"@example.com",
			"admin@example",
			"admin example@example.com",
		} {
			violations := ValidateEmail(email)
			assert.Len(t, violations, 1, "expected %q to be invalid", email)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Empty(t, ValidateEmail("  admin@example.com  "))
	})
}

func TestValidatePassword(t *testing.T) {
	t.Run("accepts password meeting all rules", func(t *testing.T) {
		assert.Empty(t, ValidatePassword("Passw0rd!"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		violations := ValidatePassword("P0!a")
		assert.Contains(t, violations, "Be at least 8 characters long")
	})

	t.Run("requires a letter", func(t *testing.T) {
		violations := ValidatePassword("12345678!")
		assert.Contains(t, violations, "Contain at least one letter")
	})

	t.Run("requires a digit", func(t *testing.T) {
		violations := ValidatePassword("Password!")
		assert.Contains(t, violations, "Contain at least one number")
	})

	t.Run("requires a special character", func(t *testing.T) {
		violations := ValidatePassword("Passw0rd")
		assert.Contains(t, violations, "Contain at least one special character")
	})

	t.Run("reports every violated rule at once", func(t *testing.T) {
		violations := ValidatePassword("")
		assert.Len(t, violations, 4)
	})

	t.Run("returns empty slice, not nil, when valid", func(t *testing.T) {
		violations := ValidatePassword("Passw0rd!")
		assert.NotNil(t, violations)
		assert.Empty(t, violations)
	})
}
