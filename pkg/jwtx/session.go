package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session tokens.
const DefaultSessionTTL = time.Hour

// Claims are the session-token claims. The email identifies the account the
// token was issued for; expiry rides in the registered "exp" claim.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
}

// Verifier validates a session token and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Signer issues and verifies HS256 session tokens against a single
// process-wide secret. The secret is fixed for the process lifetime, so a
// token is reconstructible only by signature verification, never by lookup.
type Signer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration // zero means DefaultSessionTTL
}

// Issue produces a signed token for email expiring TTL from now.
func (s *Signer) Issue(email string) (string, error) {
	return s.IssueAt(email, time.Now().UTC())
}

// IssueAt is Issue with an explicit issue time, useful for tests.
func (s *Signer) IssueAt(email string, now time.Time) (string, error) {
	ttl := s.TTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry and returns the embedded claims.
// Expired tokens fail with ErrExpired; everything else with ErrMalformed.
func (s *Signer) Verify(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}
	if !parsed.Valid {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}
