package httputil

import (
	"encoding/json"
	"net/http"
)

// Response is the uniform envelope returned by every endpoint:
// {"success": bool, "data": ..., "error": "...", "message": "...", "statusCode": int}
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
}

// WriteJSON writes an arbitrary payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// Headers already sent; nothing more we can do here.
			return
		}
	}
}

// WriteSuccess writes a successful envelope with data.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	WriteJSON(w, status, Response{
		Success:    true,
		Data:       data,
		Message:    message,
		StatusCode: status,
	})
}

// WriteError writes a failed envelope. The error string is a stable,
// client-safe description; internal details stay in the server log.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success:    false,
		Error:      http.StatusText(status),
		Message:    message,
		StatusCode: status,
	})
}

// Common error response helpers

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

func WriteServiceUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, message)
}
