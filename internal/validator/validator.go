// Package validator normalizes raw message records before they enter
// aggregation. Invalid records fail with a MalformedError naming the field;
// callers skip and log them so one bad record never aborts the rest.
package validator

import (
	"time"

	"github.com/casedesk/caseline/internal/domain"
)

// RawRecord is a message as handed to the engine by the external store,
// before any normalization.
type RawRecord struct {
	ID           string                           `json:"id"`
	ThreadID     string                           `json:"thread_id"`
	SenderID     string                           `json:"sender_id"`
	RecipientIDs []string                         `json:"recipient_ids"`
	Kind         string                           `json:"kind"`
	Priority     string                           `json:"priority"`
	Body         string                           `json:"body"`
	CreatedAt    time.Time                        `json:"created_at"`
	ReadBy       map[string]time.Time             `json:"read_by"`
	Delivery     map[string]domain.DeliveryStatus `json:"delivery_status"`
}

// Validate turns a raw record into a Message or fails with a
// *domain.MalformedError. ThreadID defaults to the record's own id, kind to
// text and priority to normal. Recipients are deduplicated preserving order
// and must not include the sender.
func Validate(rec RawRecord) (*domain.Message, error) {
	if rec.ID == "" {
		return nil, &domain.MalformedError{Field: "id", Reason: "missing"}
	}
	if rec.SenderID == "" {
		return nil, &domain.MalformedError{Field: "sender_id", Reason: "missing"}
	}
	if rec.CreatedAt.IsZero() {
		return nil, &domain.MalformedError{Field: "created_at", Reason: "missing"}
	}
	if len(rec.RecipientIDs) == 0 {
		return nil, &domain.MalformedError{Field: "recipient_ids", Reason: "empty"}
	}

	recipients := make([]string, 0, len(rec.RecipientIDs))
	seen := make(map[string]struct{}, len(rec.RecipientIDs))
	for _, r := range rec.RecipientIDs {
		if r == "" {
			return nil, &domain.MalformedError{Field: "recipient_ids", Reason: "empty recipient id"}
		}
		if r == rec.SenderID {
			return nil, &domain.MalformedError{Field: "recipient_ids", Reason: "contains sender"}
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		recipients = append(recipients, r)
	}

	kind := domain.Kind(rec.Kind)
	if rec.Kind == "" {
		kind = domain.KindText
	} else if !kind.Valid() {
		return nil, &domain.MalformedError{Field: "kind", Reason: "unknown value " + rec.Kind}
	}

	priority := domain.Priority(rec.Priority)
	if rec.Priority == "" {
		priority = domain.PriorityNormal
	} else if !priority.Valid() {
		return nil, &domain.MalformedError{Field: "priority", Reason: "unknown value " + rec.Priority}
	}

	threadID := rec.ThreadID
	if threadID == "" {
		threadID = rec.ID
	}

	msg := domain.NewMessage(rec.ID, threadID, rec.SenderID, recipients, kind, priority, rec.Body, rec.CreatedAt)

	// Carry over delivery metadata already accumulated upstream, clamped to
	// known recipients so a stray key cannot widen the recipient set.
	for user, at := range rec.ReadBy {
		msg.ReadBy[user] = at
	}
	for user, status := range rec.Delivery {
		if _, ok := msg.Delivery[user]; !ok {
			continue
		}
		if !status.AtLeast(domain.StatusSent) {
			return nil, &domain.MalformedError{Field: "delivery_status", Reason: "unknown status for " + user}
		}
		msg.Delivery[user] = status
	}

	return msg, nil
}
