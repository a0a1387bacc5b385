package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
)

func createTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(conf.SecuritySettings{
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
	})
	require.NoError(t, err)
	return svc
}

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := createTestTokenService(t)

	token, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	subject, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
	assert.Equal(t, 30*time.Minute, svc.TTL())
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()
	svc := createTestTokenService(t)

	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(31 * time.Minute) }
	_, err = svc.Parse(token)
	require.Error(t, err)
	assert.Equal(t, CredentialsErrorMessage, err.Error())
	assert.True(t, errors.IsCategory(err, errors.CategoryAuth))
}

func TestTokenService_Rejects(t *testing.T) {
	t.Parallel()
	svc := createTestTokenService(t)

	other, err := NewTokenService(conf.SecuritySettings{SecretKey: "other-secret"})
	require.NoError(t, err)
	foreign, err := other.Issue("a@b.com")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "a@b.com",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "a@b.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":         "not.a.token",
		"wrong secret":    foreign,
		"missing subject": noSubject,
		"missing expiry":  noExpiry,
		"other algorithm": hs512,
		"empty":           "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Parse(token)
			require.Error(t, err)
			assert.Equal(t, CredentialsErrorMessage, err.Error())
		})
	}
}

func TestNewTokenService_Config(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(conf.SecuritySettings{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	_, err = NewTokenService(conf.SecuritySettings{SecretKey: "k", Algorithm: "RS256"})
	require.Error(t, err)

	svc, err := NewTokenService(conf.SecuritySettings{SecretKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, svc.TTL())
	assert.Equal(t, "HS256", svc.method.Alg())
}
