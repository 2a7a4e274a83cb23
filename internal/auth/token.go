// Package auth issues and verifies the bearer session tokens. Tokens
// are signed JWTs embedding the account id; verification is stateless,
// with a stateful fallback against the token string persisted on the
// account record (see TokenService.Classify).
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"matchday/internal/status"
)

type TokenService struct {
	secret []byte
	expire time.Duration
}

func NewTokenService(secret string, expire time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expire: expire}
}

// Issue produces a signed, time-limited token for the account.
func (s *TokenService) Issue(accountID string) (string, error) {
	if len(s.secret) == 0 {
		return "", status.ErrSigningKeyMissing
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", status.ErrSigningKeyMissing
	}
	return token, nil
}

// Verify checks signature and expiry and returns the embedded account id.
func (s *TokenService) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, status.ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", status.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", status.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// Subject extracts the embedded account id without verifying the
// signature. Only for the stored-token fallback path.
func (s *TokenService) Subject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", status.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", status.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// Classify decides what a failed verification means: if the presented
// token equals the account's last stored token the session merely
// expired and the caller must re-authenticate; anything else is a
// permission problem.
func (s *TokenService) Classify(presented, stored string) error {
	if stored != "" && presented == stored {
		return status.ErrTokenExpired
	}
	return status.ErrTokenMismatch
}

// IsExpired reports whether the error is the session-expired case.
func IsExpired(err error) bool {
	return errors.Is(err, status.ErrTokenExpired)
}
