package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"postpilot/internal/config"
	"postpilot/internal/database"
	"postpilot/internal/handler"
	"postpilot/internal/logger"
	"postpilot/internal/redis"
	"postpilot/internal/repository"
	"postpilot/internal/service"
	mw "postpilot/internal/transport/http/middleware"

	"postpilot/internal/model"
)

// Run builds the full dependency graph and serves HTTP. Every client is
// constructed here explicitly and closed on shutdown; nothing is a lazy
// global.
func Run() error {
	log := logger.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		return err
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Services
	userService := service.NewUserService(userRepo, log)
	tokenService := service.NewTokenService(cfg)
	postService := service.NewPostService(postRepo, log)
	connectionService := service.NewConnectionService(connectionRepo, log)
	publishService := service.NewPublishService(postRepo, connectionRepo, cfg.N8NWebhookURL, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo, postRepo)

	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		if !errors.Is(err, model.ErrStorageUnavailable) {
			return err
		}
		log.Warn("object storage not configured, uploads disabled")
		mediaService = nil
	}

	// Optional redis-backed rate limiting
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()); err != nil {
			return err
		}
	}

	routerCfg := RouterConfig{
		AuthHandler:       handler.NewAuthHandler(userService, tokenService, log),
		PostHandler:       handler.NewPostHandler(postService, publishService, log),
		ConnectionHandler: handler.NewConnectionHandler(connectionService, log),
		AnalyticsHandler:  handler.NewAnalyticsHandler(analyticsService, log),
		UploadHandler:     handler.NewUploadHandler(mediaService, log),
		WebhookHandler:    handler.NewWebhookHandler(postService, log),

		TokenVerifier:   tokenService,
		WebhookVerifier: mw.NewWebhookVerifier(cfg.WebhookSecret, log),

		AllowedOrigins: cfg.AllowedOrigins,

		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: time.Duration(cfg.RateLimitWindowSecs) * time.Second,
	}
	if redisClient != nil {
		routerCfg.RedisClient = redisClient.Client
	}

	router := NewRouter(routerCfg)

	addr := ":" + cfg.ServerPort
	log.Infof("starting server on %s", addr)

	server := &stdhttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
