package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/domain"
	"github.com/casedesk/caseline/internal/observability"
)

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.GetLogger(context.Background()).Error("failed to encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

// DomainError maps engine errors onto HTTP statuses: malformed input is the
// caller's fault, a cooldown rejection is 429, unknown entities are 404.
func DomainError(w http.ResponseWriter, err error) {
	var malformed *domain.MalformedError
	switch {
	case errors.As(err, &malformed):
		WriteError(w, http.StatusBadRequest, "malformed_message", malformed.Error())
	case errors.Is(err, domain.ErrRateLimited):
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "nudge cooldown active")
	case errors.Is(err, domain.ErrMessageNotFound):
		WriteError(w, http.StatusNotFound, "message_not_found", err.Error())
	case errors.Is(err, domain.ErrThreadNotFound):
		WriteError(w, http.StatusNotFound, "thread_not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
