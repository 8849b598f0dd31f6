package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"postpilot/internal/model"
)

type connectionRepository struct {
	db *sqlx.DB
}

func NewConnectionRepository(db *sqlx.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

const connectionColumns = `id, user_id, platform, status, account_name, account_id,
       access_token, refresh_token, token_expires_at, created_at, updated_at`

// Upsert inserts the connection or, when a row for (user_id, platform)
// already exists, overwrites it in place. The existing row keeps its id and
// created_at; everything else takes the new values.
func (r *connectionRepository) Upsert(ctx context.Context, c *model.Connection) error {
	query := `
		INSERT INTO connections (id, user_id, platform, status, account_name, account_id,
		                         access_token, refresh_token, token_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (user_id, platform) DO UPDATE
		SET status = EXCLUDED.status,
		    account_name = EXCLUDED.account_name,
		    account_id = EXCLUDED.account_id,
		    access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    token_expires_at = EXCLUDED.token_expires_at,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.UserID,
		c.Platform,
		c.Status,
		c.AccountName,
		c.AccountID,
		c.AccessToken,
		c.RefreshToken,
		c.TokenExpiresAt,
	)

	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert connection: %w", err)
	}

	return nil
}

// GetByID retrieves a single connection.
func (r *connectionRepository) GetByID(ctx context.Context, id string) (*model.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`

	var c model.Connection
	err := r.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrConnectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}

	return &c, nil
}

// ListByUser returns all connections owned by a user.
func (r *connectionRepository) ListByUser(ctx context.Context, userID string) ([]model.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE user_id = $1 ORDER BY platform`

	connections := []model.Connection{}
	err := r.db.SelectContext(ctx, &connections, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return connections, nil
}

// Update writes the merged row back. Same read-merge-write contract as
// posts: no locking, last-write-wins.
func (r *connectionRepository) Update(ctx context.Context, c *model.Connection) error {
	query := `
		UPDATE connections
		SET status = $2, account_name = $3, account_id = $4, access_token = $5,
		    refresh_token = $6, token_expires_at = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.Status,
		c.AccountName,
		c.AccountID,
		c.AccessToken,
		c.RefreshToken,
		c.TokenExpiresAt,
	)

	if err := row.Scan(&c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return model.ErrConnectionNotFound
		}
		return fmt.Errorf("failed to update connection: %w", err)
	}

	return nil
}

// Delete removes a connection (disconnect).
func (r *connectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrConnectionNotFound
	}

	return nil
}
