package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/errors"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", hash)

	assert.True(t, VerifyPassword(hash, "Secret1!"))
	assert.False(t, VerifyPassword(hash, "Secret2!"))
	assert.False(t, VerifyPassword("not-a-hash", "Secret1!"))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{name: "valid", password: "Secret1!"},
		{name: "valid with unicode", password: "Pässwört9?"},
		{name: "too short", password: "Se1!", wantMsg: "Password must be at least 8 characters long"},
		{name: "too long", password: "A1!" + strings.Repeat("a", 70), wantMsg: "Password must be at most 72 characters long"},
		{name: "too many bytes", password: "A1!" + strings.Repeat("ä", 40), wantMsg: "Password must be at most 72 characters long"},
		{name: "no uppercase", password: "secret1!", wantMsg: "Password must contain at least one uppercase letter"},
		{name: "no digit", password: "Secret!!", wantMsg: "Password must contain at least one digit"},
		{name: "no special", password: "Secret11", wantMsg: "Password must contain at least one special character"},
		{name: "non-ASCII uppercase only", password: "Éclair1!", wantMsg: "Password must contain at least one uppercase letter"},
		{name: "non-ASCII digit only", password: "Secret٣!", wantMsg: "Password must contain at least one digit"},
		{name: "unlisted symbol is not special", password: "Secret1-", wantMsg: "Password must contain at least one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.com", "first.last+tag@example.co.uk"}
	invalid := []string{"", "plain", "a@b", "Alice <a@b.com>", "a@@b.com"}

	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}
	for _, email := range invalid {
		err := ValidateEmail(email)
		require.Error(t, err, email)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation), email)
	}
}
