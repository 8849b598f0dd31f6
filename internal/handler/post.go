package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"postpilot/internal/httputil"
	"postpilot/internal/model"
	"postpilot/internal/service"
	"postpilot/internal/transport/http/middleware"
)

type PostHandler struct {
	postService    *service.PostService
	publishService *service.PublishService
	log            logrus.FieldLogger
}

func NewPostHandler(postService *service.PostService, publishService *service.PublishService, log logrus.FieldLogger) *PostHandler {
	return &PostHandler{
		postService:    postService,
		publishService: publishService,
		log:            log,
	}
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoPlatforms):
			httputil.WriteBadRequest(w, "At least one platform is required")
		case errors.Is(err, model.ErrInvalidPlatform):
			httputil.WriteBadRequest(w, "Unknown platform")
		case errors.Is(err, model.ErrInvalidPostStatus):
			httputil.WriteBadRequest(w, "Unknown post status")
		default:
			h.log.WithField("user_id", userID).Errorf("create post failed: %v", err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, post, "Post created")
}

// List handles GET /api/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	posts, err := h.postService.List(r.Context(), userID)
	if err != nil {
		h.log.WithField("user_id", userID).Errorf("list posts failed: %v", err)
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, posts, "")
}

// GetByID handles GET /api/posts/{id}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID := chi.URLParam(r, "id")

	post, err := h.postService.GetOwned(r.Context(), postID, userID)
	if err != nil {
		h.writePostError(w, userID, postID, err, "Failed to get post")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, post, "")
}

// Update handles PUT /api/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID := chi.URLParam(r, "id")

	var req model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), postID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoPlatforms):
			httputil.WriteBadRequest(w, "At least one platform is required")
		case errors.Is(err, model.ErrInvalidPlatform):
			httputil.WriteBadRequest(w, "Unknown platform")
		case errors.Is(err, model.ErrInvalidPostStatus):
			httputil.WriteBadRequest(w, "Unknown post status")
		default:
			h.writePostError(w, userID, postID, err, "Failed to update post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, post, "Post updated")
}

// Delete handles DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID := chi.URLParam(r, "id")

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		h.writePostError(w, userID, postID, err, "Failed to delete post")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Post deleted")
}

// Publish handles POST /api/posts/{id}/publish
func (h *PostHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID := chi.URLParam(r, "id")

	post, err := h.publishService.Publish(r.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoConnectedAccounts):
			httputil.WriteBadRequest(w, "No connected accounts for the post's platforms")
		case errors.Is(err, model.ErrPublishFailed):
			httputil.WriteInternalError(w, "Publish failed")
		default:
			h.writePostError(w, userID, postID, err, "Failed to publish post")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, post, "Post published")
}

// writePostError maps the shared load-check-act outcomes: 404 for a missing
// id (checked before ownership), 403 for foreign posts, 500 otherwise.
func (h *PostHandler) writePostError(w http.ResponseWriter, userID, postID string, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrNotPostOwner):
		httputil.WriteForbidden(w, "You do not own this post")
	default:
		h.log.WithFields(logrus.Fields{"user_id": userID, "post_id": postID}).Errorf("%s: %v", fallback, err)
		httputil.WriteInternalError(w, fallback)
	}
}
