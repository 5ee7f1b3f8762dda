package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casedesk/caseline/internal/application"
	"github.com/casedesk/caseline/internal/transport"
)

type ConversationHandler struct {
	svc *application.Service
}

func NewConversationHandler(svc *application.Service) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// ListConversations returns the viewer's conversation list, most recently
// active first, with unread counts precomputed for badge rendering.
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("viewer_id")
	if viewerID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_viewer", "viewer_id query parameter required")
		return
	}

	conversations, err := h.svc.ListConversations(r.Context(), viewerID)
	if err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, conversations)
}

func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	viewerID := r.URL.Query().Get("viewer_id")
	if viewerID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_viewer", "viewer_id query parameter required")
		return
	}

	conversation, err := h.svc.GetConversation(r.Context(), threadID, viewerID)
	if err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, conversation)
}

// UnreadBadges returns the sidebar badge view for the viewer.
func (h *ConversationHandler) UnreadBadges(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("viewer_id")
	if viewerID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing_viewer", "viewer_id query parameter required")
		return
	}

	badges, total, err := h.svc.Badges(r.Context(), viewerID)
	if err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{
		"total":  total,
		"badges": badges,
	})
}
