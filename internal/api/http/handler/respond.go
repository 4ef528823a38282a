package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleError maps service errors onto HTTP responses. Validation detail
// is surfaced to the caller; everything unexpected collapses to a generic
// 500 with the real error in the logs only.
func handleError(w http.ResponseWriter, err error, logger *logger.Logger) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, model.ErrInvalidToken), errors.Is(err, model.ErrUnauthorized):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, model.ErrConflict):
		writeError(w, http.StatusConflict, "Conflicting edit, please reload and try again")
	default:
		logger.Error("Handler: internal error", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
