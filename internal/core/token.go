package core

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const TokenType = "bearer"

// TokenIssuer signs and verifies stateless HS256 access tokens. Tokens carry
// the username as subject and cannot be revoked before they expire.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: token secret cannot be empty", ErrInvalid)
	}

	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source, mostly for tests.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now

	return t
}

func (t *TokenIssuer) Issue(username string) (string, error) {
	return t.IssueWithTTL(username, t.ttl)
}

func (t *TokenIssuer) IssueWithTTL(username string, ttl time.Duration) (string, error) {
	if username == "" {
		return "", fmt.Errorf("%w: token subject cannot be empty", ErrInvalid)
	}

	now := t.now()

	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature and expiry and returns the subject.
func (t *TokenIssuer) Verify(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims jwt.RegisteredClaims

	parsed, err := parser.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}

		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if !parsed.Valid {
		return "", fmt.Errorf("%w: the token is not valid", ErrAuth)
	}

	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: token has no expiry", ErrAuth)
	}

	if !claims.VerifyExpiresAt(t.now(), true) {
		return "", fmt.Errorf("%w: token is expired", ErrAuth)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrAuth)
	}

	return claims.Subject, nil
}
