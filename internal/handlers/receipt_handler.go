package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/casedesk/caseline/internal/application"
	"github.com/casedesk/caseline/internal/transport"
)

type ReceiptHandler struct {
	svc *application.Service
}

func NewReceiptHandler(svc *application.Service) *ReceiptHandler {
	return &ReceiptHandler{svc: svc}
}

func (h *ReceiptHandler) DeliveryReceipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID   string `json:"message_id"`
		RecipientID string `json:"recipient_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	if err := h.svc.AcknowledgeDelivery(r.Context(), req.MessageID, req.RecipientID); err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ReceiptHandler) ReadReceipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID   string    `json:"message_id"`
		RecipientID string    `json:"recipient_id"`
		At          time.Time `json:"at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	at := req.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if err := h.svc.AcknowledgeRead(r.Context(), req.MessageID, req.RecipientID, at); err != nil {
		transport.DomainError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
