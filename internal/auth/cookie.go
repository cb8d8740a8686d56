// Package auth signs the subscriber identity cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "ledge"

// MinSecretLen is the shortest secret accepted for HS256.
const MinSecretLen = 32

// CookieSigner encodes a subscriber email as an HS256 JWT and verifies it on
// the way back. It satisfies middleware.CookieCodec.
type CookieSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCookieSigner rejects secrets shorter than MinSecretLen.
func NewCookieSigner(secret string, ttl time.Duration) (*CookieSigner, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("auth: cookie secret must be at least %d characters", MinSecretLen)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: cookie ttl must be positive")
	}
	return &CookieSigner{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Encode signs email as the token subject.
func (s *CookieSigner) Encode(email string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign cookie: %w", err)
	}
	return signed, nil
}

// Decode returns the email of a token produced by Encode. Expired, foreign
// or tampered tokens are rejected.
func (s *CookieSigner) Decode(value string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("auth: verify cookie: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("auth: cookie has no subject")
	}
	return claims.Subject, nil
}
