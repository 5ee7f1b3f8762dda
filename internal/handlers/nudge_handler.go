package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/casedesk/caseline/internal/nudge"
	"github.com/casedesk/caseline/internal/transport"
)

type NudgeHandler struct {
	dispatcher *nudge.Dispatcher
}

func NewNudgeHandler(d *nudge.Dispatcher) *NudgeHandler {
	return &NudgeHandler{dispatcher: d}
}

// Nudge sends an attention signal to the thread's online participants. A
// call inside the sender's cooldown window gets 429 so the UI can surface
// feedback instead of silently dropping.
func (h *NudgeHandler) Nudge(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	var req struct {
		SenderID string `json:"sender_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}
	if req.SenderID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_sender", "sender_id required")
		return
	}

	if err := h.dispatcher.Nudge(r.Context(), threadID, req.SenderID, time.Now()); err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
