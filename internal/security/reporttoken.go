// Package security holds the signed-token support for emailed report
// download links.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, tampered and malformed download tokens.
var ErrInvalidToken = errors.New("invalid report token")

// ReportTokenIssuer signs and verifies short-lived download tokens. A token
// binds exactly one child id; anyone holding a live token may download that
// child's report, so the TTL is kept short.
type ReportTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewReportTokenIssuer creates an issuer. ttl defaults to 24 hours when zero.
func NewReportTokenIssuer(secret string, ttl time.Duration) *ReportTokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReportTokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given child id.
func (i *ReportTokenIssuer) Issue(childID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": childID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign report token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the child id it was issued for.
func (i *ReportTokenIssuer) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	childID, _ := claims["sub"].(string)
	if childID == "" {
		return "", ErrInvalidToken
	}
	return childID, nil
}
