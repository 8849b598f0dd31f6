package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	ServerPort string

	JWTSecret    string
	JWTExpiresIn int // seconds

	WebhookSecret string
	N8NWebhookURL string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	AllowedOrigins []string

	RedisURL            string
	RateLimitMax        int
	RateLimitWindowSecs int

	DBMaxOpenConns        int
	DBMaxIdleConns        int
	DBConnMaxLifetimeSecs int
}

// LoadConfig reads environment configuration. Missing JWT_SECRET or
// DATABASE_URL is a fatal misconfiguration: the process must not start.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	var allowedOrigins []string
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	return &Config{
		DatabaseURL: databaseURL,

		ServerPort: serverPort,

		JWTSecret:    jwtSecret,
		JWTExpiresIn: intFromEnv("JWT_EXPIRES_IN", 7*24*3600),

		WebhookSecret: os.Getenv("N8N_WEBHOOK_SECRET"),
		N8NWebhookURL: os.Getenv("N8N_WEBHOOK_URL"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		AllowedOrigins: allowedOrigins,

		RedisURL:            os.Getenv("REDIS_URL"),
		RateLimitMax:        intFromEnv("RATE_LIMIT_MAX", 100),
		RateLimitWindowSecs: intFromEnv("RATE_LIMIT_WINDOW_SECONDS", 60),

		DBMaxOpenConns:        intFromEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:        intFromEnv("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeSecs: intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300),
	}, nil
}

func intFromEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
