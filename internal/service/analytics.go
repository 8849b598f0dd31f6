package service

import (
	"context"

	"postpilot/internal/model"
	"postpilot/internal/repository"
)

const recentPostsLimit = 5

// AnalyticsService assembles dashboard and per-post aggregates. Everything
// here is derived from the posts and connections tables.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	posts     repository.PostRepository
}

func NewAnalyticsService(analytics repository.AnalyticsRepository, posts repository.PostRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, posts: posts}
}

// Dashboard computes the user's aggregate view, optionally narrowed by a
// filter.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID string, filter model.DashboardFilter) (*model.Dashboard, error) {
	total, err := s.analytics.CountPosts(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.analytics.CountPostsByStatus(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	byPlatform, err := s.analytics.CountPostsByPlatform(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	connected, err := s.analytics.CountConnectedAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.analytics.RecentPosts(ctx, userID, recentPostsLimit)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		TotalPosts:        total,
		PostsByStatus:     byStatus,
		PostsByPlatform:   byPlatform,
		ConnectedAccounts: connected,
		RecentPosts:       recent,
	}, nil
}

// PostAnalytics returns the metadata view of one post, with the usual
// existence-then-ownership check.
func (s *AnalyticsService) PostAnalytics(ctx context.Context, postID, userID string) (*model.PostAnalytics, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, model.ErrNotPostOwner
	}

	return &model.PostAnalytics{
		PostID:         post.ID,
		Status:         post.Status,
		Platforms:      post.Platforms,
		CharacterCount: post.CharacterCount,
		WordCount:      post.WordCount,
		HashtagCount:   len(post.Hashtags),
		MentionCount:   len(post.Mentions),
		ScheduledAt:    post.ScheduledAt,
		PublishedAt:    post.PublishedAt,
	}, nil
}
