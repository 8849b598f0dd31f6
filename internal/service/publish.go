package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"postpilot/internal/model"
	"postpilot/internal/repository"
)

// PublishService forwards a post and its account credentials to the external
// automation webhook. The call is fire-and-wait: the caller blocks on the
// webhook's answer and there is no retry.
type PublishService struct {
	posts       repository.PostRepository
	connections repository.ConnectionRepository
	httpClient  *http.Client
	webhookURL  string
	log         logrus.FieldLogger
}

func NewPublishService(posts repository.PostRepository, connections repository.ConnectionRepository, webhookURL string, log logrus.FieldLogger) *PublishService {
	return &PublishService{
		posts:       posts,
		connections: connections,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		webhookURL: webhookURL,
		log:        log,
	}
}

// Publish dispatches the post to the automation system.
//
// The eligible accounts are the user's connections whose platform is in the
// post's platform set and whose status is connected. No eligible accounts is
// a validation failure and leaves the post untouched. A webhook failure
// (network error or non-2xx) downgrades the post to failed, best-effort, and
// surfaces model.ErrPublishFailed.
func (s *PublishService) Publish(ctx context.Context, postID, userID string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, model.ErrNotPostOwner
	}

	connections, err := s.connections.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]bool, len(post.Platforms))
	for _, platform := range post.Platforms {
		targets[platform] = true
	}

	var accounts []model.PublishAccount
	for _, conn := range connections {
		if conn.Status != model.ConnectionStatusConnected || !targets[conn.Platform] {
			continue
		}
		accounts = append(accounts, model.PublishAccount{
			Platform:     conn.Platform,
			AccountID:    conn.AccountID,
			AccountName:  conn.AccountName,
			AccessToken:  conn.AccessToken,
			RefreshToken: conn.RefreshToken,
		})
	}

	if len(accounts) == 0 {
		return nil, model.ErrNoConnectedAccounts
	}

	if err := s.callWebhook(ctx, post, accounts); err != nil {
		s.log.WithFields(logrus.Fields{"post_id": post.ID}).Errorf("publish webhook failed: %v", err)
		// Best-effort downgrade; the caller still gets the publish error
		// even if this write does not stick.
		if stErr := s.posts.UpdateStatus(ctx, post.ID, model.PostStatusFailed, nil); stErr != nil {
			s.log.WithFields(logrus.Fields{"post_id": post.ID}).Errorf("failed to mark post failed: %v", stErr)
		}
		return nil, model.ErrPublishFailed
	}

	now := time.Now()
	if err := s.posts.UpdateStatus(ctx, post.ID, model.PostStatusPublished, &now); err != nil {
		return nil, err
	}

	post.Status = model.PostStatusPublished
	post.PublishedAt = &now

	s.log.WithFields(logrus.Fields{
		"post_id":  post.ID,
		"accounts": len(accounts),
	}).Info("post published")

	return post, nil
}

func (s *PublishService) callWebhook(ctx context.Context, post *model.Post, accounts []model.PublishAccount) error {
	if s.webhookURL == "" {
		return fmt.Errorf("automation webhook URL is not configured")
	}

	payload, err := json.Marshal(model.PublishPayload{
		Post:     post,
		Accounts: accounts,
	})
	if err != nil {
		return fmt.Errorf("marshal publish payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call publish webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("publish webhook returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
