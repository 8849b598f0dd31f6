package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"postpilot/internal/model"
)

type stubVerifier struct {
	verifyFn func(token string) (string, error)
}

func (s *stubVerifier) Verify(token string) (string, error) {
	return s.verifyFn(token)
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func runAuth(verifier TokenVerifier, req *http.Request) (*httptest.ResponseRecorder, string, bool) {
	var gotID string
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, ok = GetUserIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	Auth(verifier)(next).ServeHTTP(rec, req)
	return rec, gotID, ok
}

func TestAuth_ValidToken(t *testing.T) {
	verifier := &stubVerifier{verifyFn: func(token string) (string, error) {
		if token != "good-token" {
			t.Errorf("verifier got token %q", token)
		}
		return "user-123", nil
	}}

	_, userID, ok := runAuth(verifier, authedRequest("good-token"))
	if !ok || userID != "user-123" {
		t.Errorf("context user = (%q, %v), want (user-123, true)", userID, ok)
	}
}

func TestAuth_MissingAndMalformedHeaders(t *testing.T) {
	verifier := &stubVerifier{verifyFn: func(token string) (string, error) {
		t.Error("verifier should not be called without a bearer token")
		return "", nil
	}}

	bare := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	basic := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	basic.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	for name, req := range map[string]*http.Request{"no header": bare, "basic scheme": basic} {
		rec, _, reached := runAuth(verifier, req)
		if reached {
			t.Errorf("%s: handler should not run", name)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	verifier := &stubVerifier{verifyFn: func(token string) (string, error) {
		return "", model.ErrTokenExpired
	}}

	rec, _, reached := runAuth(verifier, authedRequest("stale"))
	if reached {
		t.Error("handler should not run for an expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Success {
		t.Error("envelope success should be false")
	}
	if body.Message != "Token has expired" {
		t.Errorf("message = %q, want the expiry-specific message", body.Message)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	verifier := &stubVerifier{verifyFn: func(token string) (string, error) {
		return "", model.ErrTokenInvalid
	}}

	rec, _, reached := runAuth(verifier, authedRequest("forged"))
	if reached {
		t.Error("handler should not run for an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
