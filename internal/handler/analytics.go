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

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	log              logrus.FieldLogger
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, log logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		log:              log,
	}
}

// Dashboard handles GET /api/analytics/dashboard (unfiltered).
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.dashboard(w, r, model.DashboardFilter{})
}

// DashboardFiltered handles POST /api/analytics/dashboard with an optional
// {from, to, platform} body.
func (h *AnalyticsHandler) DashboardFiltered(w http.ResponseWriter, r *http.Request) {
	var filter model.DashboardFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if filter.Platform != "" && !model.ValidPlatform(filter.Platform) {
		httputil.WriteBadRequest(w, "Unknown platform")
		return
	}

	h.dashboard(w, r, filter)
}

func (h *AnalyticsHandler) dashboard(w http.ResponseWriter, r *http.Request, filter model.DashboardFilter) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	dashboard, err := h.analyticsService.Dashboard(r.Context(), userID, filter)
	if err != nil {
		h.log.WithField("user_id", userID).Errorf("dashboard failed: %v", err)
		httputil.WriteInternalError(w, "Failed to compute dashboard")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, dashboard, "")
}

// PostAnalytics handles GET /api/analytics/posts/{id}
func (h *AnalyticsHandler) PostAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	postID := chi.URLParam(r, "id")

	analytics, err := h.analyticsService.PostAnalytics(r.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You do not own this post")
		default:
			h.log.WithFields(logrus.Fields{"user_id": userID, "post_id": postID}).Errorf("post analytics failed: %v", err)
			httputil.WriteInternalError(w, "Failed to compute post analytics")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, analytics, "")
}
