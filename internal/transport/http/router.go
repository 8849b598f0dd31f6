package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"postpilot/internal/handler"
	"postpilot/internal/httputil"
	mw "postpilot/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler       *handler.AuthHandler
	PostHandler       *handler.PostHandler
	ConnectionHandler *handler.ConnectionHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	UploadHandler     *handler.UploadHandler
	WebhookHandler    *handler.WebhookHandler

	TokenVerifier   mw.TokenVerifier
	WebhookVerifier *mw.WebhookVerifier

	AllowedOrigins []string

	RedisClient     *redis.Client
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.CORS(cfg.AllowedOrigins))
	r.Use(mw.RateLimit(cfg.RedisClient, cfg.RateLimitMax, cfg.RateLimitWindow))

	r.Route("/api", func(r chi.Router) {
		// Health check endpoint (useful for deployment/monitoring)
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			httputil.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "")
		})

		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(mw.Auth(cfg.TokenVerifier))
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Inbound automation callback, authenticated by HMAC signature
		r.With(cfg.WebhookVerifier.Middleware).Post("/webhook/n8n/callback", cfg.WebhookHandler.Callback)

		// Protected resource routes
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(cfg.TokenVerifier))

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", cfg.PostHandler.List)
				r.Post("/", cfg.PostHandler.Create)
				r.Get("/{id}", cfg.PostHandler.GetByID)
				r.Put("/{id}", cfg.PostHandler.Update)
				r.Delete("/{id}", cfg.PostHandler.Delete)
				r.Post("/{id}/publish", cfg.PostHandler.Publish)
			})

			r.Route("/connections", func(r chi.Router) {
				r.Get("/", cfg.ConnectionHandler.List)
				r.Post("/", cfg.ConnectionHandler.Create)
				r.Put("/{id}", cfg.ConnectionHandler.Update)
				r.Delete("/{id}", cfg.ConnectionHandler.Delete)
				r.Post("/{id}/reconnect", cfg.ConnectionHandler.Reconnect)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/dashboard", cfg.AnalyticsHandler.Dashboard)
				r.Post("/dashboard", cfg.AnalyticsHandler.DashboardFiltered)
				r.Get("/posts/{id}", cfg.AnalyticsHandler.PostAnalytics)
			})

			r.Post("/upload/images", cfg.UploadHandler.Images)
		})
	})

	return r
}
