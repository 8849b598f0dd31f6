package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"postpilot/internal/httputil"
	"postpilot/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// TokenVerifier validates a session token and returns the user id it was
// issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth validates the Bearer token and puts the user id into the request
// context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Missing authentication token")
				return
			}

			userID, err := verifier.Verify(tokenString)
			if err != nil {
				if errors.Is(err, model.ErrTokenExpired) {
					httputil.WriteUnauthorized(w, "Token has expired")
					return
				}
				httputil.WriteUnauthorized(w, "Invalid authentication token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns the user ID and true if found, or "" and false if not found.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
