package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

const (
	// TokenType is returned alongside issued access tokens.
	TokenType = "bearer"

	// CredentialsErrorMessage is the message for every rejected bearer token.
	CredentialsErrorMessage = "Could not validate credentials"

	defaultTokenTTL = 30 * time.Minute
)

// TokenService issues and verifies signed access tokens whose subject is the
// account email.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService from security settings.
func NewTokenService(settings conf.SecuritySettings) (*TokenService, error) {
	if settings.SecretKey == "" {
		return nil, errors.Newf("security secret key is empty").
			Component("security").
			Category(errors.CategoryConfiguration).
			Build()
	}

	alg := settings.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Newf("unsupported token algorithm %q", alg).
			Component("security").
			Category(errors.CategoryConfiguration).
			Build()
	}

	ttl := time.Duration(settings.AccessTokenExpireMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &TokenService{
		secret: []byte(settings.SecretKey),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue returns a signed token for subject.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.New(err).
			Component("security").
			Category(errors.CategoryAuth).
			Context("operation", "issue_token").
			Build()
	}
	return signed, nil
}

// Parse verifies token and returns its subject.
func (s *TokenService) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		getLogger().Debug("rejected access token", logger.Error(err))
		return "", credentialsError()
	}
	if claims.Subject == "" {
		return "", credentialsError()
	}
	return claims.Subject, nil
}

func credentialsError() error {
	return errors.Newf(CredentialsErrorMessage).
		Component("security").
		Category(errors.CategoryAuth).
		Build()
}
