// Package token mints and verifies account session tokens. Sessions are
// HS256 JWTs carrying the user id as the subject claim.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
)

const issuer = "stridebound-account"

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 30 * 24 * time.Hour

// Minter signs session tokens.
type Minter struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewMinter creates a minter with a shared secret. A non-positive ttl falls
// back to DefaultTTL.
func NewMinter(secret string, ttl time.Duration) *Minter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Minter{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Mint signs a session token for userID.
func (m *Minter) Mint(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if len(m.secret) == 0 {
		return "", errors.New("session secret is not configured")
	}

	now := m.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verifier validates session tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier with a shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify validates a session token and returns the user id it was minted
// for.
func (v *Verifier) Verify(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", apperrors.New(apperrors.CodeAccountSessionInvalid, "session token is required")
	}
	if len(v.secret) == 0 {
		return "", errors.New("session verifier is not configured")
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return "", mapJWTError(err)
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return "", apperrors.New(apperrors.CodeAccountSessionInvalid, "session subject is required")
	}
	return userID, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperrors.New(apperrors.CodeAccountSessionExpired, "session is expired")
	}
	return apperrors.New(apperrors.CodeAccountSessionInvalid, "session token is invalid")
}
