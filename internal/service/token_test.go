package service

import (
	"errors"
	"testing"
	"time"

	"postpilot/internal/config"
	"postpilot/internal/model"
)

func tokenService(secret string, expiresIn int) *TokenService {
	return NewTokenService(&config.Config{
		JWTSecret:    secret,
		JWTExpiresIn: expiresIn,
	})
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc := tokenService("test-secret", 3600)

	token, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("user ID = %q, want user-123", userID)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := tokenService("secret-a", 3600)
	verifier := tokenService("secret-b", 3600)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, model.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for wrong secret, got: %v", err)
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	// Negative lifetime issues a token that is already expired.
	svc := tokenService("test-secret", 1)
	svc.expiresIn = -time.Hour

	token, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Verify(token)
	if !errors.Is(err, model.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	svc := tokenService("test-secret", 3600)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, model.ErrTokenInvalid) {
			t.Errorf("token %q: expected ErrTokenInvalid, got: %v", token, err)
		}
	}
}
