package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service issues opaque anonymous sessions. There is no persistence: a token
// is valid until it expires and identifies nothing but itself.
type Service struct {
	jwt *JWTManager
}

type TokenResult struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

func NewService(jwt *JWTManager) *Service {
	return &Service{jwt: jwt}
}

func (s *Service) IssueToken() (TokenResult, error) {
	if s.jwt == nil {
		return TokenResult{}, fmt.Errorf("jwt manager is nil")
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.jwt.GenerateSessionToken(sessionID)
	if err != nil {
		return TokenResult{}, err
	}

	return TokenResult{
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) ValidateToken(raw string) (SessionClaims, error) {
	if s.jwt == nil {
		return SessionClaims{}, fmt.Errorf("jwt manager is nil")
	}
	return s.jwt.ParseSessionToken(raw)
}
