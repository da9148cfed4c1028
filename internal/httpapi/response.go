package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Leganyst/rental-inventory/internal/availability"
	"github.com/Leganyst/rental-inventory/internal/calendar"
	"github.com/Leganyst/rental-inventory/internal/lock"
	"github.com/Leganyst/rental-inventory/internal/service"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details string         `json:"details,omitempty"`
	Lines   []LineDecision `json:"lines,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// respondServiceError сопоставляет ошибки домена с HTTP-статусами.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr validator.ValidationErrors
		uerr *availability.UnsatisfiableError
	)

	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "validation_failed", verr.Error())
	case availability.IsStructural(err),
		errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidDateRange):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, availability.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &uerr):
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   http.StatusText(http.StatusConflict),
			Code:    "unavailable",
			Details: err.Error(),
			Lines:   toLineDecisions(uerr.Lines),
		})
	case errors.Is(err, availability.ErrUnsatisfiable):
		respondError(w, http.StatusConflict, "unavailable", err.Error())
	case errors.Is(err, service.ErrConflict):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, lock.ErrNotAcquired):
		respondError(w, http.StatusServiceUnavailable, "busy", "items are being booked by another request, retry later")
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
