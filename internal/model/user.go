package model

import (
	"errors"
	"time"
	"unicode"
)

// User represents an account in the system. The password hash is tagged
// `json:"-"` so it can never leak into an API response: every serialization
// of a User is the "safe" view.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

const RoleUser = "user"

// SignupRequest is the body for POST /api/auth/signup.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Name      string `json:"name" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the signed session token along with the safe user.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Password policy bounds.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// ValidatePassword enforces the signup password policy: length 8-128 with at
// least one upper, one lower, one digit and one symbol.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < MinPasswordLength || len(runes) > MaxPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return ErrWeakPassword
	}
	return nil
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when signing up with an email that is taken
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword is returned when a password fails the policy
	ErrWeakPassword = errors.New("password does not meet requirements")

	// ErrTokenInvalid is returned for malformed or badly signed tokens
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired is returned for tokens past their expiry
	ErrTokenExpired = errors.New("token expired")
)
