// Package respond centralizes response writing and the mapping from domain
// error kinds to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/freshfold/orderdesk/internal/service/models/apperr"
)

type errorBody struct {
	Message string `json:"message"`
}

// JSON writes v as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error translates a service error into a status code. Domain kinds map to
// client statuses; anything else is an infrastructure failure reported as 500
// without leaking the underlying message.
func Error(w http.ResponseWriter, err error) {
	status := StatusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("internal error", "error", err)
		message = "internal server error"
	}

	JSON(w, status, errorBody{Message: message})
}

// StatusFromError maps a domain error kind to its HTTP status.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrProductNotFound):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
