package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"postpilot/internal/model"
	"postpilot/internal/repository"
)

// PostService handles post CRUD with ownership checks and derived metadata.
type PostService struct {
	repo repository.PostRepository
	log  logrus.FieldLogger
}

func NewPostService(repo repository.PostRepository, log logrus.FieldLogger) *PostService {
	return &PostService{repo: repo, log: log}
}

// Create validates and stores a new post for the user. Metadata is computed
// from the content before the row is written.
func (s *PostService) Create(ctx context.Context, userID string, req model.CreatePostRequest) (*model.Post, error) {
	if len(req.Platforms) == 0 {
		return nil, model.ErrNoPlatforms
	}
	for _, platform := range req.Platforms {
		if !model.ValidPlatform(platform) {
			return nil, model.ErrInvalidPlatform
		}
	}

	status := req.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if !model.ValidPostStatus(status) {
		return nil, model.ErrInvalidPostStatus
	}

	post := &model.Post{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Platforms:   pq.StringArray(req.Platforms),
		Status:      status,
		ScheduledAt: req.ScheduledAt,
		MediaURLs:   pq.StringArray(req.MediaURLs),
	}
	if post.MediaURLs == nil {
		post.MediaURLs = pq.StringArray{}
	}
	post.ComputeMetadata()

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "post_id": post.ID}).Info("post created")

	return post, nil
}

// GetOwned loads a post and enforces ownership. Existence is checked first:
// a missing id yields ErrPostNotFound even when the caller would not own it.
func (s *PostService) GetOwned(ctx context.Context, postID, userID string) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, model.ErrNotPostOwner
	}
	return post, nil
}

// List returns the user's posts.
func (s *PostService) List(ctx context.Context, userID string) ([]model.Post, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update merges the supplied fields over the stored post and writes it back.
// The read and the write are separate statements: concurrent updates race
// and the last write wins.
func (s *PostService) Update(ctx context.Context, postID, userID string, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.GetOwned(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	contentChanged := false
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
		contentChanged = true
	}
	if req.Platforms != nil {
		if len(req.Platforms) == 0 {
			return nil, model.ErrNoPlatforms
		}
		for _, platform := range req.Platforms {
			if !model.ValidPlatform(platform) {
				return nil, model.ErrInvalidPlatform
			}
		}
		post.Platforms = pq.StringArray(req.Platforms)
	}
	if req.Status != nil {
		if !model.ValidPostStatus(*req.Status) {
			return nil, model.ErrInvalidPostStatus
		}
		post.Status = *req.Status
	}
	if req.ScheduledAt != nil {
		post.ScheduledAt = req.ScheduledAt
	}
	if req.MediaURLs != nil {
		post.MediaURLs = pq.StringArray(req.MediaURLs)
	}

	if contentChanged {
		post.ComputeMetadata()
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes a post after the ownership check.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	if _, err := s.GetOwned(ctx, postID, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "post_id": postID}).Info("post deleted")
	return nil
}

// ApplyCallback updates a post's status from the automation system's
// callback. The callback is authenticated by HMAC, not by user, so there is
// no ownership check here.
func (s *PostService) ApplyCallback(ctx context.Context, req model.WebhookCallbackRequest) error {
	switch req.Status {
	case model.PostStatusPublished, model.PostStatusFailed, model.PostStatusReview:
	default:
		return model.ErrInvalidPostStatus
	}

	if err := s.repo.UpdateStatus(ctx, req.PostID, req.Status, req.PublishedAt); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"post_id": req.PostID,
		"status":  req.Status,
	}).Info("post status updated from webhook callback")
	if req.Error != "" {
		s.log.WithFields(logrus.Fields{"post_id": req.PostID}).Warnf("callback reported error: %s", req.Error)
	}
	return nil
}
