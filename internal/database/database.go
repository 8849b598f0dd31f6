package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"postpilot/internal/config"
)

// Connect opens a connection pool to PostgreSQL with the bounds from config.
// Pool exhaustion shows up as a blocking wait on acquire; requests fail once
// their context deadline hits.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSecs) * time.Second)

	return db, nil
}

// EnsureSchema creates the tables if they do not exist yet. The DDL is
// idempotent so running it on every startup is safe.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS posts (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES users(id),
		title           TEXT NOT NULL DEFAULT '',
		content         TEXT NOT NULL DEFAULT '',
		platforms       TEXT[] NOT NULL DEFAULT '{}',
		status          TEXT NOT NULL DEFAULT 'draft',
		scheduled_at    TIMESTAMPTZ,
		published_at    TIMESTAMPTZ,
		media_urls      TEXT[] NOT NULL DEFAULT '{}',
		hashtags        TEXT[] NOT NULL DEFAULT '{}',
		mentions        TEXT[] NOT NULL DEFAULT '{}',
		character_count INT NOT NULL DEFAULT 0,
		word_count      INT NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);

	CREATE TABLE IF NOT EXISTS connections (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES users(id),
		platform         TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'pending',
		account_name     TEXT NOT NULL DEFAULT '',
		account_id       TEXT NOT NULL DEFAULT '',
		access_token     TEXT NOT NULL DEFAULT '',
		refresh_token    TEXT NOT NULL DEFAULT '',
		token_expires_at TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, platform)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
