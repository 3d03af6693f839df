package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("unauthorized")

// JWTManager signs and parses the anonymous session tokens handed out by
// GET /api/token. The token subject is the session id; no user identity is
// involved anywhere in the storefront.
type JWTManager struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

type SessionClaims struct {
	SessionID string
	ExpiresAt time.Time
}

func NewJWTManager(secret string, tokenTTL time.Duration) *JWTManager {
	if tokenTTL <= 0 {
		tokenTTL = 2 * time.Hour
	}

	return &JWTManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (m *JWTManager) GenerateSessionToken(sessionID string) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", time.Time{}, fmt.Errorf("session id is required")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) ParseSessionToken(raw string) (SessionClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return SessionClaims{}, ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || token == nil || !token.Valid {
		return SessionClaims{}, ErrUnauthorized
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return SessionClaims{}, ErrUnauthorized
	}

	return SessionClaims{
		SessionID: claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
