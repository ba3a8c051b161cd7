// Package auth issues and verifies bearer tokens, hashes passwords, and
// implements the per-request gate that turns a bearer token into an
// authenticated user.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophid/internal/common"
)

// Claims is the payload of an access token. Subject holds the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService signs access tokens with an HMAC secret and verifies them.
// It holds no per-token state.
type TokenService struct {
	secret   []byte
	validity time.Duration
	issuer   string
	now      func() time.Time
}

type TokenOption func(*TokenService)

// WithIssuer sets the "iss" claim; verification then requires it.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) { s.issuer = issuer }
}

// WithClock replaces time.Now for both issuing and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService fails with common.ErrConfiguration when the secret is empty
// or the validity is not positive.
func NewTokenService(secret []byte, validity time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: token signing secret is empty", common.ErrConfiguration)
	}
	if validity <= 0 {
		return nil, fmt.Errorf("%w: token validity must be positive", common.ErrConfiguration)
	}

	s := &TokenService{secret: secret, validity: validity, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue returns a signed token for userID that expires after the configured
// validity.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// claims. A token is expired once the current time reaches its exp claim.
// Errors are common.ErrTokenExpired or common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
	}
	return s.secret, nil
}
