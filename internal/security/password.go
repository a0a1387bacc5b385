// Package security handles password hashing, credential validation and
// bearer token issuance for Weather Closet accounts.
package security

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit

	passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`
)

func getLogger() logger.Logger {
	return logger.Global().Module("security")
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New(err).
			Component("security").
			Category(errors.CategoryValidation).
			Context("operation", "hash_password").
			Build()
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		getLogger().Warn("password hash comparison failed", logger.Error(err))
	}
	return err == nil
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case n < MinPasswordLength:
		return errors.ValidationError("Password must be at least 8 characters long")
	case n > MaxPasswordLength || len(password) > MaxPasswordLength:
		return errors.ValidationError("Password must be at most 72 characters long")
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.ValidationError("Password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return errors.ValidationError("Password must contain at least one digit")
	}
	if !hasSpecial {
		return errors.ValidationError("Password must contain at least one special character")
	}
	return nil
}

// ValidateEmail checks that email is a bare address without a display name.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.ValidationError("Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@")+1:], ".") {
		return errors.ValidationError("Email is not a valid email address")
	}
	return nil
}
