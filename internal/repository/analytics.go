package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"postpilot/internal/model"
)

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// filterClause builds the optional WHERE fragments for a dashboard filter.
// Values are always bound as parameters, never interpolated.
func filterClause(userID string, filter model.DashboardFilter) (string, []interface{}) {
	clauses := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, "created_at <= $"+strconv.Itoa(len(args)))
	}
	if filter.Platform != "" {
		args = append(args, filter.Platform)
		clauses = append(clauses, "$"+strconv.Itoa(len(args))+" = ANY(platforms)")
	}

	return strings.Join(clauses, " AND "), args
}

func (r *analyticsRepository) CountPosts(ctx context.Context, userID string, filter model.DashboardFilter) (int, error) {
	where, args := filterClause(userID, filter)

	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (r *analyticsRepository) CountPostsByStatus(ctx context.Context, userID string, filter model.DashboardFilter) ([]model.StatusCount, error) {
	where, args := filterClause(userID, filter)

	query := `SELECT status, COUNT(*) AS count FROM posts WHERE ` + where + ` GROUP BY status ORDER BY status`

	counts := []model.StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count posts by status: %w", err)
	}
	return counts, nil
}

func (r *analyticsRepository) CountPostsByPlatform(ctx context.Context, userID string, filter model.DashboardFilter) ([]model.PlatformCount, error) {
	where, args := filterClause(userID, filter)

	// unnest fans a post out to one row per target platform
	query := `
		SELECT platform, COUNT(*) AS count
		FROM posts, UNNEST(platforms) AS platform
		WHERE ` + where + `
		GROUP BY platform
		ORDER BY platform
	`

	counts := []model.PlatformCount{}
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count posts by platform: %w", err)
	}
	return counts, nil
}

func (r *analyticsRepository) CountConnectedAccounts(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM connections WHERE user_id = $1 AND status = $2`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID, model.ConnectionStatusConnected)
	if err != nil {
		return 0, fmt.Errorf("failed to count connected accounts: %w", err)
	}
	return count, nil
}

func (r *analyticsRepository) RecentPosts(ctx context.Context, userID string, limit int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	posts := []model.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	return posts, nil
}
