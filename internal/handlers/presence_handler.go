package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/casedesk/caseline/internal/presence"
	"github.com/casedesk/caseline/internal/transport"
)

type PresenceHandler struct {
	store presence.Store
}

func NewPresenceHandler(store presence.Store) *PresenceHandler {
	return &PresenceHandler{store: store}
}

// Heartbeat records one presence sample. Clients beat on a fixed cadence;
// the timestamp defaults to the server clock when omitted.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string    `json:"user_id"`
		At     time.Time `json:"at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}
	if req.UserID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_user", "user_id required")
		return
	}

	at := req.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if err := h.store.Heartbeat(r.Context(), req.UserID, at); err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PresenceHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.OnlineUsers(r.Context(), time.Now())
	if err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{
		"count": len(users),
		"users": users,
	})
}

func (h *PresenceHandler) GetPresence(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_user", "user_id query parameter required")
		return
	}

	online, err := h.store.IsOnline(r.Context(), userID, time.Now())
	if err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"online":  online,
	})
}
