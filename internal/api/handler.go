package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/interviewpartner/backend/internal/apperr"
	"github.com/interviewpartner/backend/internal/monitor"
	"github.com/interviewpartner/backend/internal/service"
)

// maxBodyBytes bounds request bodies. A 2000-word answer fits comfortably.
const maxBodyBytes = 1 << 20

// HealthReporter exposes the latest LLM probe.
type HealthReporter interface {
	Status() monitor.Status
}

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	interviews *service.InterviewService
	health     HealthReporter
	logger     *slog.Logger
}

// NewHandler creates a Handler. health may be nil, in which case /health
// reports only the server itself.
func NewHandler(s *service.InterviewService, health HealthReporter, logger *slog.Logger) *Handler {
	return &Handler{
		interviews: s,
		health:     health,
		logger:     logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the body into v. It writes a 400 and returns false on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// writeServiceError maps service error kinds to status codes. Unknown
// errors are logged and reported as 500 without details.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConfig):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrGeneration):
		status = http.StatusBadGateway
	case errors.Is(err, apperr.ErrConnection):
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperr.ErrTimeout):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, status, "internal error")
		return
	}
	h.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	respondError(w, status, err.Error())
}
