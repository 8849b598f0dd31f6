package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"postpilot/internal/httputil"
	"postpilot/internal/model"
	"postpilot/internal/service"
)

// WebhookHandler receives callbacks from the automation system. Signature
// verification happens in middleware before this handler runs.
type WebhookHandler struct {
	postService *service.PostService
	log         logrus.FieldLogger
}

func NewWebhookHandler(postService *service.PostService, log logrus.FieldLogger) *WebhookHandler {
	return &WebhookHandler{
		postService: postService,
		log:         log,
	}
}

// Callback handles POST /api/webhook/n8n/callback
func (h *WebhookHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req model.WebhookCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.PostID == "" || req.Status == "" {
		httputil.WriteBadRequest(w, "postId and status are required")
		return
	}

	if err := h.postService.ApplyCallback(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidPostStatus):
			httputil.WriteBadRequest(w, "Unknown post status")
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		default:
			h.log.WithField("post_id", req.PostID).Errorf("webhook callback failed: %v", err)
			httputil.WriteInternalError(w, "Failed to apply callback")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Status updated")
}
