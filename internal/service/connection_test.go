package service

import (
	"context"
	"errors"
	"testing"

	"postpilot/internal/model"
)

func TestConnectionService_Create_Success(t *testing.T) {
	repo := &mockConnectionRepository{}
	svc := NewConnectionService(repo, testLogger())

	conn, err := svc.Create(context.Background(), "u1", model.CreateConnectionRequest{
		Platform:    model.PlatformLinkedIn,
		AccountName: "Acme Inc",
		AccountID:   "acct-9",
		AccessToken: "tok",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if conn.Status != model.ConnectionStatusConnected {
		t.Errorf("status = %q, want connected on first link", conn.Status)
	}
	if conn.UserID != "u1" {
		t.Errorf("userID = %q, want u1", conn.UserID)
	}
	if len(repo.upsertCalls) != 1 {
		t.Errorf("Upsert called %d times, want 1", len(repo.upsertCalls))
	}
}

func TestConnectionService_Create_InvalidPlatform(t *testing.T) {
	repo := &mockConnectionRepository{}
	svc := NewConnectionService(repo, testLogger())

	_, err := svc.Create(context.Background(), "u1", model.CreateConnectionRequest{
		Platform: "myspace",
	})
	if !errors.Is(err, model.ErrInvalidPlatform) {
		t.Errorf("expected ErrInvalidPlatform, got: %v", err)
	}
	if len(repo.upsertCalls) != 0 {
		t.Error("Upsert should not be called for an invalid platform")
	}
}

// Linking the same platform twice goes through Upsert both times: the row
// store keeps one row per (user, platform) and the second call's fields win.
func TestConnectionService_Create_SamePlatformUpserts(t *testing.T) {
	// Simulate the ON CONFLICT path: the second upsert keeps the first id.
	store := map[string]*model.Connection{}
	repo := &mockConnectionRepository{
		upsertFn: func(ctx context.Context, c *model.Connection) error {
			key := c.UserID + "/" + c.Platform
			if existing, ok := store[key]; ok {
				c.ID = existing.ID
				c.CreatedAt = existing.CreatedAt
			}
			copied := *c
			store[key] = &copied
			return nil
		},
	}
	svc := NewConnectionService(repo, testLogger())

	first, err := svc.Create(context.Background(), "u1", model.CreateConnectionRequest{
		Platform:    model.PlatformInstagram,
		AccountName: "old-handle",
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second, err := svc.Create(context.Background(), "u1", model.CreateConnectionRequest{
		Platform:    model.PlatformInstagram,
		AccountName: "new-handle",
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if len(store) != 1 {
		t.Fatalf("store holds %d rows, want exactly 1", len(store))
	}
	if second.ID != first.ID {
		t.Errorf("second create got id %q, want the original %q", second.ID, first.ID)
	}
	if store["u1/"+model.PlatformInstagram].AccountName != "new-handle" {
		t.Error("second call's fields should overwrite the first's")
	}
}

func TestConnectionService_GetOwned_NotFoundBeforeForbidden(t *testing.T) {
	svc := NewConnectionService(&mockConnectionRepository{}, testLogger())

	_, err := svc.GetOwned(context.Background(), "missing", "intruder")
	if !errors.Is(err, model.ErrConnectionNotFound) {
		t.Errorf("missing connection: expected ErrConnectionNotFound, got: %v", err)
	}

	repo := &mockConnectionRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Connection, error) {
			return &model.Connection{ID: id, UserID: "owner"}, nil
		},
	}
	svc = NewConnectionService(repo, testLogger())

	_, err = svc.GetOwned(context.Background(), "c1", "intruder")
	if !errors.Is(err, model.ErrNotConnectionOwner) {
		t.Errorf("foreign connection: expected ErrNotConnectionOwner, got: %v", err)
	}
}

func TestConnectionService_Reconnect(t *testing.T) {
	stored := &model.Connection{
		ID:       "c1",
		UserID:   "u1",
		Platform: model.PlatformInstagram,
		Status:   model.ConnectionStatusError,
	}
	repo := &mockConnectionRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Connection, error) {
			copied := *stored
			return &copied, nil
		},
	}
	svc := NewConnectionService(repo, testLogger())

	token := "fresh-token"
	conn, err := svc.Reconnect(context.Background(), "c1", "u1", model.UpdateConnectionRequest{
		AccessToken: &token,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if conn.Status != model.ConnectionStatusConnected {
		t.Errorf("status = %q, want connected", conn.Status)
	}
	if conn.AccessToken != "fresh-token" {
		t.Errorf("accessToken = %q, want rotated", conn.AccessToken)
	}
	if conn.TokenExpiresAt == nil {
		t.Error("a rotated token without explicit expiry gets a default one")
	}
}

func TestConnectionService_Update_InvalidStatus(t *testing.T) {
	repo := &mockConnectionRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Connection, error) {
			return &model.Connection{ID: id, UserID: "u1"}, nil
		},
	}
	svc := NewConnectionService(repo, testLogger())

	bad := "detached"
	_, err := svc.Update(context.Background(), "c1", "u1", model.UpdateConnectionRequest{Status: &bad})
	if !errors.Is(err, model.ErrInvalidConnectionSts) {
		t.Errorf("expected ErrInvalidConnectionSts, got: %v", err)
	}
}
