package model

import (
	"errors"
	"time"
)

// Platforms a connection may target.
const (
	PlatformInstagram      = "instagram"
	PlatformLinkedIn       = "linkedin"
	PlatformFacebook       = "facebook"
	PlatformInstagramFeed  = "instagram-feed"
	PlatformInstagramReels = "instagram-reels"
)

// Connection statuses.
const (
	ConnectionStatusConnected    = "connected"
	ConnectionStatusDisconnected = "disconnected"
	ConnectionStatusError        = "error"
	ConnectionStatusPending      = "pending"
)

// Connection links a user to one external platform account. At most one
// connection exists per (user, platform) pair; creating a second one
// overwrites the first (upsert). Access and refresh tokens are kept out of
// API responses and only travel to the publish webhook.
type Connection struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"userId"`
	Platform       string     `db:"platform" json:"platform"`
	Status         string     `db:"status" json:"status"`
	AccountName    string     `db:"account_name" json:"accountName"`
	AccountID      string     `db:"account_id" json:"accountId"`
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   string     `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"tokenExpiresAt"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// CreateConnectionRequest is the body for POST /api/connections.
type CreateConnectionRequest struct {
	Platform       string     `json:"platform" validate:"required"`
	AccountName    string     `json:"accountName"`
	AccountID      string     `json:"accountId"`
	AccessToken    string     `json:"accessToken"`
	RefreshToken   string     `json:"refreshToken"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt"`
}

// UpdateConnectionRequest is the body for PUT /api/connections/{id}.
// Nil fields are left untouched (shallow merge).
type UpdateConnectionRequest struct {
	Status         *string    `json:"status"`
	AccountName    *string    `json:"accountName"`
	AccountID      *string    `json:"accountId"`
	AccessToken    *string    `json:"accessToken"`
	RefreshToken   *string    `json:"refreshToken"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt"`
}

// ValidPlatform reports whether p is one of the supported platforms.
func ValidPlatform(p string) bool {
	switch p {
	case PlatformInstagram, PlatformLinkedIn, PlatformFacebook, PlatformInstagramFeed, PlatformInstagramReels:
		return true
	}
	return false
}

// ValidConnectionStatus reports whether s is a known connection status.
func ValidConnectionStatus(s string) bool {
	switch s {
	case ConnectionStatusConnected, ConnectionStatusDisconnected, ConnectionStatusError, ConnectionStatusPending:
		return true
	}
	return false
}

var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrNotConnectionOwner   = errors.New("not the owner of this connection")
	ErrInvalidPlatform      = errors.New("invalid platform")
	ErrInvalidConnectionSts = errors.New("invalid connection status")
)
