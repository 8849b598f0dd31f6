package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"postpilot/internal/config"
	"postpilot/internal/model"
)

// TokenService signs and verifies session tokens. The signing secret comes
// from config and is loaded once at process start.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:    []byte(cfg.JWTSecret),
		expiresIn: time.Duration(cfg.JWTExpiresIn) * time.Second,
	}
}

// Issue signs a token carrying the user id, expiring after the configured
// lifetime (7 days by default).
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Expired tokens yield ErrTokenExpired; anything else invalid yields
// ErrTokenInvalid. Both are auth errors, distinguished from generic
// failures.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", model.ErrTokenExpired
		}
		return "", model.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", model.ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", model.ErrTokenInvalid
	}

	return userID, nil
}
