package util

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const PasswordMinLength = 8

func IsValidEmail(s string) bool {
	if s == "" {
		return false
	}
	return emailRegex.MatchString(s)
}

// ValidateEmail returns the list of human-readable violations for the
// email field. Empty slice means the field is valid.
func ValidateEmail(email string) []string {
	violations := []string{}
	if !IsValidEmail(strings.TrimSpace(email)) {
		violations = append(violations, "Enter a valid email address")
	}
	return violations
}

// ValidatePassword returns the list of human-readable violations for
// the password field: minimum length, at least one letter, one digit
// and one special (non-alphanumeric) character.
func ValidatePassword(password string) []string {
	password = strings.TrimSpace(password)
	violations := []string{}

	if len(password) < PasswordMinLength {
		violations = append(violations, "Be at least 8 characters long")
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasLetter {
		violations = append(violations, "Contain at least one letter")
	}
	if !hasDigit {
		violations = append(violations, "Contain at least one number")
	}
	if !hasSpecial {
		violations = append(violations, "Contain at least one special character")
	}

	return violations
}
