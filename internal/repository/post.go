package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"postpilot/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, title, content, platforms, status, scheduled_at, published_at,
       media_urls, hashtags, mentions, character_count, word_count, created_at, updated_at`

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (id, user_id, title, content, platforms, status, scheduled_at,
		                   media_urls, hashtags, mentions, character_count, word_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Content,
		p.Platforms,
		p.Status,
		p.ScheduledAt,
		p.MediaURLs,
		p.Hashtags,
		p.Mentions,
		p.CharacterCount,
		p.WordCount,
	)

	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var p model.Post
	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &p, nil
}

// ListByUser returns all posts owned by a user, newest first.
func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`

	posts := []model.Post{}
	err := r.db.SelectContext(ctx, &posts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

// Update writes the full merged row back. Callers fetch the row, overlay the
// changed fields and call Update: there is no row locking in between, so
// concurrent updates to the same post are last-write-wins.
func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	query := `
		UPDATE posts
		SET title = $2, content = $3, platforms = $4, status = $5, scheduled_at = $6,
		    published_at = $7, media_urls = $8, hashtags = $9, mentions = $10,
		    character_count = $11, word_count = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.Title,
		p.Content,
		p.Platforms,
		p.Status,
		p.ScheduledAt,
		p.PublishedAt,
		p.MediaURLs,
		p.Hashtags,
		p.Mentions,
		p.CharacterCount,
		p.WordCount,
	)

	if err := row.Scan(&p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return model.ErrPostNotFound
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// UpdateStatus sets just the lifecycle state, used by the publish dispatcher
// and the webhook callback.
func (r *postRepository) UpdateStatus(ctx context.Context, id, status string, publishedAt *time.Time) error {
	query := `
		UPDATE posts
		SET status = $2, published_at = COALESCE($3, published_at), updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrPostNotFound
	}

	return nil
}

// Delete removes a post.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrPostNotFound
	}

	return nil
}
