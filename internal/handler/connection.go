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

type ConnectionHandler struct {
	connectionService *service.ConnectionService
	log               logrus.FieldLogger
}

func NewConnectionHandler(connectionService *service.ConnectionService, log logrus.FieldLogger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		log:               log,
	}
}

// List handles GET /api/connections
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	connections, err := h.connectionService.List(r.Context(), userID)
	if err != nil {
		h.log.WithField("user_id", userID).Errorf("list connections failed: %v", err)
		httputil.WriteInternalError(w, "Failed to list connections")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, connections, "")
}

// Create handles POST /api/connections. Linking a platform that is already
// linked overwrites the stored connection (upsert), so this never conflicts.
func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	conn, err := h.connectionService.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPlatform) {
			httputil.WriteBadRequest(w, "Unknown platform")
			return
		}
		h.log.WithField("user_id", userID).Errorf("create connection failed: %v", err)
		httputil.WriteInternalError(w, "Failed to create connection")
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, conn, "Connection created")
}

// Update handles PUT /api/connections/{id}
func (h *ConnectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	connID := chi.URLParam(r, "id")

	var req model.UpdateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	conn, err := h.connectionService.Update(r.Context(), connID, userID, req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidConnectionSts) {
			httputil.WriteBadRequest(w, "Unknown connection status")
			return
		}
		h.writeConnectionError(w, userID, connID, err, "Failed to update connection")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, conn, "Connection updated")
}

// Delete handles DELETE /api/connections/{id} (disconnect).
func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	connID := chi.URLParam(r, "id")

	if err := h.connectionService.Delete(r.Context(), connID, userID); err != nil {
		h.writeConnectionError(w, userID, connID, err, "Failed to delete connection")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, nil, "Connection deleted")
}

// Reconnect handles POST /api/connections/{id}/reconnect
func (h *ConnectionHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	connID := chi.URLParam(r, "id")

	// Body is optional: reconnect without fresh tokens just flips status.
	var req model.UpdateConnectionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	conn, err := h.connectionService.Reconnect(r.Context(), connID, userID, req)
	if err != nil {
		h.writeConnectionError(w, userID, connID, err, "Failed to reconnect")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, conn, "Connection reconnected")
}

// writeConnectionError maps load-check-act outcomes: existence first (404),
// then ownership (403), then 500.
func (h *ConnectionHandler) writeConnectionError(w http.ResponseWriter, userID, connID string, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrConnectionNotFound):
		httputil.WriteNotFound(w, "Connection not found")
	case errors.Is(err, model.ErrNotConnectionOwner):
		httputil.WriteForbidden(w, "You do not own this connection")
	default:
		h.log.WithFields(logrus.Fields{"user_id": userID, "connection_id": connID}).Errorf("%s: %v", fallback, err)
		httputil.WriteInternalError(w, fallback)
	}
}
