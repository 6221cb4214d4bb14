package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lyzr/sequences/common/config"
)

// Verification failure reasons surfaced to the guard middleware
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenManager issues and verifies the bearer tokens protecting the API
type TokenManager struct {
	secret  []byte
	expiry  time.Duration
	subject string
}

// NewTokenManager creates a token manager from auth configuration
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:  []byte(cfg.JWTSecret),
		expiry:  cfg.JWTExpiry,
		subject: cfg.TokenSubject,
	}
}

// Issue creates a signed access token. The jti claim makes every issued
// token unique even within the same second.
func (m *TokenManager) Issue() (string, error) {
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"sub": m.subject,
		"iat": now.Unix(),
		"exp": now.Add(m.expiry).Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks a bearer token's signature and expiry
func (m *TokenManager) Verify(tokenString string) error {
	_, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}

	return nil
}
