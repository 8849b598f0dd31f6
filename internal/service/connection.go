package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"postpilot/internal/model"
	"postpilot/internal/repository"
)

// ConnectionService manages per-platform account links.
type ConnectionService struct {
	repo repository.ConnectionRepository
	log  logrus.FieldLogger
}

func NewConnectionService(repo repository.ConnectionRepository, log logrus.FieldLogger) *ConnectionService {
	return &ConnectionService{repo: repo, log: log}
}

// Create links a platform account to the user. A second create for the same
// (user, platform) pair overwrites the first row instead of adding one.
func (s *ConnectionService) Create(ctx context.Context, userID string, req model.CreateConnectionRequest) (*model.Connection, error) {
	if !model.ValidPlatform(req.Platform) {
		return nil, model.ErrInvalidPlatform
	}

	conn := &model.Connection{
		ID:             uuid.New().String(),
		UserID:         userID,
		Platform:       req.Platform,
		Status:         model.ConnectionStatusConnected,
		AccountName:    req.AccountName,
		AccountID:      req.AccountID,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: req.TokenExpiresAt,
	}

	if err := s.repo.Upsert(ctx, conn); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"platform": conn.Platform,
	}).Info("connection linked")

	return conn, nil
}

// GetOwned loads a connection and enforces ownership; existence first.
func (s *ConnectionService) GetOwned(ctx context.Context, connID, userID string) (*model.Connection, error) {
	conn, err := s.repo.GetByID(ctx, connID)
	if err != nil {
		return nil, err
	}
	if conn.UserID != userID {
		return nil, model.ErrNotConnectionOwner
	}
	return conn, nil
}

// List returns all of the user's connections.
func (s *ConnectionService) List(ctx context.Context, userID string) ([]model.Connection, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update merges the supplied fields over the stored connection. Read and
// write are separate statements; last write wins under concurrency.
func (s *ConnectionService) Update(ctx context.Context, connID, userID string, req model.UpdateConnectionRequest) (*model.Connection, error) {
	conn, err := s.GetOwned(ctx, connID, userID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !model.ValidConnectionStatus(*req.Status) {
			return nil, model.ErrInvalidConnectionSts
		}
		conn.Status = *req.Status
	}
	if req.AccountName != nil {
		conn.AccountName = *req.AccountName
	}
	if req.AccountID != nil {
		conn.AccountID = *req.AccountID
	}
	if req.AccessToken != nil {
		conn.AccessToken = *req.AccessToken
	}
	if req.RefreshToken != nil {
		conn.RefreshToken = *req.RefreshToken
	}
	if req.TokenExpiresAt != nil {
		conn.TokenExpiresAt = req.TokenExpiresAt
	}

	if err := s.repo.Update(ctx, conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Reconnect marks the connection as connected again, optionally rotating
// its tokens.
func (s *ConnectionService) Reconnect(ctx context.Context, connID, userID string, req model.UpdateConnectionRequest) (*model.Connection, error) {
	conn, err := s.GetOwned(ctx, connID, userID)
	if err != nil {
		return nil, err
	}

	conn.Status = model.ConnectionStatusConnected
	if req.AccessToken != nil {
		conn.AccessToken = *req.AccessToken
	}
	if req.RefreshToken != nil {
		conn.RefreshToken = *req.RefreshToken
	}
	if req.TokenExpiresAt != nil {
		conn.TokenExpiresAt = req.TokenExpiresAt
	} else if req.AccessToken != nil {
		// Fresh token without an explicit expiry gets the platform default.
		expiry := time.Now().Add(60 * 24 * time.Hour)
		conn.TokenExpiresAt = &expiry
	}

	if err := s.repo.Update(ctx, conn); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"platform": conn.Platform,
	}).Info("connection reconnected")

	return conn, nil
}

// Delete disconnects and removes the link.
func (s *ConnectionService) Delete(ctx context.Context, connID, userID string) error {
	if _, err := s.GetOwned(ctx, connID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, connID)
}
