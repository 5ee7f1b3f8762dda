package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casedesk/caseline/internal/application"
	"github.com/casedesk/caseline/internal/transport"
	"github.com/casedesk/caseline/internal/validator"
)

type MessageHandler struct {
	svc *application.Service
}

func NewMessageHandler(svc *application.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThreadID     string   `json:"thread_id"`
		SenderID     string   `json:"sender_id"`
		RecipientIDs []string `json:"recipient_ids"`
		Kind         string   `json:"kind"`
		Priority     string   `json:"priority"`
		Body         string   `json:"body"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	msg, err := h.svc.SendMessage(r.Context(), application.SendMessageCommand{
		ThreadID:     req.ThreadID,
		SenderID:     req.SenderID,
		RecipientIDs: req.RecipientIDs,
		Kind:         req.Kind,
		Priority:     req.Priority,
		Body:         req.Body,
	})
	if err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, msg)
}

// Ingest imports a snapshot of raw records from the external message store.
// Malformed records are skipped, not fatal; the response reports both
// counts.
func (h *MessageHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []validator.RawRecord `json:"records"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	res, err := h.svc.Ingest(r.Context(), req.Records)
	if err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, res)
}
