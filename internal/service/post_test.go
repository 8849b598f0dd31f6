package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"postpilot/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

type mockPostRepository struct {
	createFn       func(ctx context.Context, p *model.Post) error
	getByIDFn      func(ctx context.Context, id string) (*model.Post, error)
	listByUserFn   func(ctx context.Context, userID string) ([]model.Post, error)
	updateFn       func(ctx context.Context, p *model.Post) error
	updateStatusFn func(ctx context.Context, id, status string, publishedAt *time.Time) error
	deleteFn       func(ctx context.Context, id string) error

	updateCalls       []*model.Post
	updateStatusCalls []string
}

func (m *mockPostRepository) Create(ctx context.Context, p *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockPostRepository) Update(ctx context.Context, p *model.Post) error {
	m.updateCalls = append(m.updateCalls, p)
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockPostRepository) UpdateStatus(ctx context.Context, id, status string, publishedAt *time.Time) error {
	m.updateStatusCalls = append(m.updateStatusCalls, status)
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, publishedAt)
	}
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// =============================================================================
// METADATA TESTS
// =============================================================================

func TestPostService_Create_ComputesMetadata(t *testing.T) {
	svc := NewPostService(&mockPostRepository{}, testLogger())

	post, err := svc.Create(context.Background(), "u1", model.CreatePostRequest{
		Content:   "Hello #world @friend",
		Platforms: []string{model.PlatformInstagram},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(post.Hashtags) != 1 || post.Hashtags[0] != "#world" {
		t.Errorf("hashtags = %v, want [#world]", post.Hashtags)
	}
	if len(post.Mentions) != 1 || post.Mentions[0] != "@friend" {
		t.Errorf("mentions = %v, want [@friend]", post.Mentions)
	}
	if post.WordCount != 2 {
		t.Errorf("wordCount = %d, want 2", post.WordCount)
	}
	if post.CharacterCount != 20 {
		t.Errorf("characterCount = %d, want 20", post.CharacterCount)
	}
	if post.Status != model.PostStatusDraft {
		t.Errorf("status = %q, want draft by default", post.Status)
	}
}

func TestComputeMetadata_EmptyContent(t *testing.T) {
	p := &model.Post{Content: ""}
	p.ComputeMetadata()

	if p.WordCount != 0 || p.CharacterCount != 0 {
		t.Errorf("counts = (%d, %d), want zeros", p.WordCount, p.CharacterCount)
	}
	if p.Hashtags == nil || p.Mentions == nil {
		t.Error("hashtags and mentions should be empty slices, not nil")
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestPostService_Create_RequiresPlatforms(t *testing.T) {
	svc := NewPostService(&mockPostRepository{}, testLogger())

	_, err := svc.Create(context.Background(), "u1", model.CreatePostRequest{
		Content: "no platforms",
	})
	if !errors.Is(err, model.ErrNoPlatforms) {
		t.Errorf("expected ErrNoPlatforms, got: %v", err)
	}

	_, err = svc.Create(context.Background(), "u1", model.CreatePostRequest{
		Content:   "bad platform",
		Platforms: []string{"myspace"},
	})
	if !errors.Is(err, model.ErrInvalidPlatform) {
		t.Errorf("expected ErrInvalidPlatform, got: %v", err)
	}
}

// =============================================================================
// OWNERSHIP TESTS
// =============================================================================

// Existence is checked before ownership: a nonexistent id yields not-found
// even for a caller who would not own the post.
func TestPostService_GetOwned_NotFoundBeforeForbidden(t *testing.T) {
	missingRepo := &mockPostRepository{}
	svc := NewPostService(missingRepo, testLogger())

	_, err := svc.GetOwned(context.Background(), "missing", "intruder")
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("missing post: expected ErrPostNotFound, got: %v", err)
	}

	foreignRepo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, UserID: "owner"}, nil
		},
	}
	svc = NewPostService(foreignRepo, testLogger())

	_, err = svc.GetOwned(context.Background(), "p1", "intruder")
	if !errors.Is(err, model.ErrNotPostOwner) {
		t.Errorf("foreign post: expected ErrNotPostOwner, got: %v", err)
	}
}

// =============================================================================
// UPDATE-MERGE TESTS
// =============================================================================

func TestPostService_Update_MergesAndRecomputes(t *testing.T) {
	stored := &model.Post{
		ID:        "p1",
		UserID:    "u1",
		Title:     "old title",
		Content:   "old content",
		Platforms: []string{model.PlatformInstagram},
		Status:    model.PostStatusDraft,
	}
	stored.ComputeMetadata()

	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			copied := *stored
			return &copied, nil
		},
	}
	svc := NewPostService(repo, testLogger())

	newContent := "fresh #take"
	post, err := svc.Update(context.Background(), "p1", "u1", model.UpdatePostRequest{
		Content: &newContent,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Untouched fields survive the merge
	if post.Title != "old title" {
		t.Errorf("title = %q, want old title preserved", post.Title)
	}
	// Content change recomputes metadata
	if len(post.Hashtags) != 1 || post.Hashtags[0] != "#take" {
		t.Errorf("hashtags = %v, want [#take]", post.Hashtags)
	}
	if post.WordCount != 2 {
		t.Errorf("wordCount = %d, want 2", post.WordCount)
	}
}

// The update flow is read-merge-write with no locking. Two concurrent
// updates both read the same row; whichever writes second wins wholesale.
// This pins the accepted last-write-wins behavior.
func TestPostService_Update_LastWriteWins(t *testing.T) {
	stored := &model.Post{
		ID:        "p1",
		UserID:    "u1",
		Title:     "original",
		Content:   "original",
		Platforms: []string{model.PlatformInstagram},
		Status:    model.PostStatusDraft,
	}

	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			copied := *stored
			return &copied, nil
		},
	}
	svc := NewPostService(repo, testLogger())

	titleA := "writer A"
	if _, err := svc.Update(context.Background(), "p1", "u1", model.UpdatePostRequest{Title: &titleA}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// Second writer read the row before A's write landed; its merge is
	// based on the original row and overwrites A's title with the original.
	contentB := "writer B content"
	second, err := svc.Update(context.Background(), "p1", "u1", model.UpdatePostRequest{Content: &contentB})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if second.Title != "original" {
		t.Errorf("title = %q; the second write is based on its own stale read", second.Title)
	}
	if len(repo.updateCalls) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(repo.updateCalls))
	}
	if repo.updateCalls[1].Title == titleA {
		t.Error("second write should not see the first writer's title: last write wins")
	}
}

// =============================================================================
// WEBHOOK CALLBACK TESTS
// =============================================================================

func TestPostService_ApplyCallback(t *testing.T) {
	repo := &mockPostRepository{}
	svc := NewPostService(repo, testLogger())

	err := svc.ApplyCallback(context.Background(), model.WebhookCallbackRequest{
		PostID: "p1",
		Status: model.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.updateStatusCalls) != 1 || repo.updateStatusCalls[0] != model.PostStatusPublished {
		t.Errorf("updateStatus calls = %v, want [published]", repo.updateStatusCalls)
	}

	err = svc.ApplyCallback(context.Background(), model.WebhookCallbackRequest{
		PostID: "p1",
		Status: "draft", // callbacks may not move posts back to draft
	})
	if !errors.Is(err, model.ErrInvalidPostStatus) {
		t.Errorf("expected ErrInvalidPostStatus, got: %v", err)
	}
}
