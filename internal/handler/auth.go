package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"postpilot/internal/httputil"
	"postpilot/internal/model"
	"postpilot/internal/service"
	"postpilot/internal/transport/http/middleware"
)

// validate holds the shared struct validator for request bodies.
var validate = validator.New()

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
	log          logrus.FieldLogger
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, tokenService *service.TokenService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		log:          log,
	}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		httputil.WriteBadRequest(w, "Email, password and all name fields are required; email must be well-formed")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrWeakPassword):
			httputil.WriteBadRequest(w, "Password must be 8-128 characters with upper, lower, digit and symbol")
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already registered")
		default:
			h.log.Errorf("signup failed: %v", err)
			httputil.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		h.log.Errorf("token issue failed: %v", err)
		httputil.WriteInternalError(w, "Failed to create session")
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, model.AuthResponse{User: user, Token: token}, "Account created")
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Email and password are required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		// Wrong password and unknown email answer identically.
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid email or password")
			return
		}
		h.log.Errorf("login failed: %v", err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		h.log.Errorf("token issue failed: %v", err)
		httputil.WriteInternalError(w, "Failed to create session")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, model.AuthResponse{User: user, Token: token}, "Logged in")
}

// Logout handles POST /api/auth/logout. Sessions are stateless JWTs, so
// there is nothing to revoke server-side; the client discards the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Logged out")
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		h.log.Errorf("get current user failed: %v", err)
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, user, "")
}
