package validation

import (
	"errors"
	"strings"
)

const minPasswordLength = 8

const specialChars = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

// HasSpecialChar reports whether the string contains at least one
// punctuation character.
func HasSpecialChar(s string) bool {
	return strings.ContainsAny(s, specialChars)
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if !HasSpecialChar(password) {
		return errors.New("password must contain a special character")
	}
	return nil
}
