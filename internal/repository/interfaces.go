package repository

import (
	"context"
	"time"

	"postpilot/internal/model"
)

// UserRepository provides access to user rows.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PostRepository provides access to post rows. Update is read-merge-write
// without row locking: concurrent updates to the same post are
// last-write-wins.
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]model.Post, error)
	Update(ctx context.Context, p *model.Post) error
	UpdateStatus(ctx context.Context, id, status string, publishedAt *time.Time) error
	Delete(ctx context.Context, id string) error
}

// ConnectionRepository provides access to connection rows. Upsert enforces
// the at-most-one-per-(user, platform) invariant via ON CONFLICT.
type ConnectionRepository interface {
	Upsert(ctx context.Context, c *model.Connection) error
	GetByID(ctx context.Context, id string) (*model.Connection, error)
	ListByUser(ctx context.Context, userID string) ([]model.Connection, error)
	Update(ctx context.Context, c *model.Connection) error
	Delete(ctx context.Context, id string) error
}

// AnalyticsRepository computes aggregates over posts and connections.
type AnalyticsRepository interface {
	CountPosts(ctx context.Context, userID string, filter model.DashboardFilter) (int, error)
	CountPostsByStatus(ctx context.Context, userID string, filter model.DashboardFilter) ([]model.StatusCount, error)
	CountPostsByPlatform(ctx context.Context, userID string, filter model.DashboardFilter) ([]model.PlatformCount, error)
	CountConnectedAccounts(ctx context.Context, userID string) (int, error)
	RecentPosts(ctx context.Context, userID string, limit int) ([]model.Post, error)
}
