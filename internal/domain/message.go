package domain

import "time"

// Kind classifies a message payload.
type Kind string

const (
	KindText   Kind = "text"
	KindFile   Kind = "file"
	KindSystem Kind = "system"
)

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindFile, KindSystem:
		return true
	}
	return false
}

// Priority is the sender-assigned urgency of a message.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// DeliveryStatus is the per-recipient progress of a message.
// It only ever moves forward: sent -> delivered -> read.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
)

// rank orders statuses for monotonicity checks and summary computation.
func (s DeliveryStatus) rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

// AtLeast reports whether s has progressed to o or beyond.
func (s DeliveryStatus) AtLeast(o DeliveryStatus) bool {
	return s.rank() >= o.rank()
}

// Message is the unit of the engine. It is immutable after creation except
// for the ReadBy and Delivery maps, which are mutated only through the
// delivery tracker.
type Message struct {
	ID           string    `json:"id"`
	ThreadID     string    `json:"thread_id"`
	SenderID     string    `json:"sender_id"`
	RecipientIDs []string  `json:"recipient_ids"`
	Kind         Kind      `json:"kind"`
	Priority     Priority  `json:"priority"`
	Body         string    `json:"body,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	ReadBy   map[string]time.Time      `json:"read_by"`
	Delivery map[string]DeliveryStatus `json:"delivery_status"`
}

// NewMessage builds a message with delivery initialized to sent for every
// recipient. Callers are expected to have validated the fields.
func NewMessage(id, threadID, senderID string, recipients []string, kind Kind, priority Priority, body string, createdAt time.Time) *Message {
	delivery := make(map[string]DeliveryStatus, len(recipients))
	for _, r := range recipients {
		delivery[r] = StatusSent
	}
	return &Message{
		ID:           id,
		ThreadID:     threadID,
		SenderID:     senderID,
		RecipientIDs: recipients,
		Kind:         kind,
		Priority:     priority,
		Body:         body,
		CreatedAt:    createdAt,
		ReadBy:       make(map[string]time.Time),
		Delivery:     delivery,
	}
}

// ReadByUser reports whether userID has acknowledged reading the message.
func (m *Message) ReadByUser(userID string) bool {
	_, ok := m.ReadBy[userID]
	return ok
}

// Clone returns a deep copy. Aggregation works on snapshots so concurrent
// delivery transitions never race with readers.
func (m *Message) Clone() *Message {
	cp := *m
	cp.RecipientIDs = append([]string(nil), m.RecipientIDs...)
	cp.ReadBy = make(map[string]time.Time, len(m.ReadBy))
	for k, v := range m.ReadBy {
		cp.ReadBy[k] = v
	}
	cp.Delivery = make(map[string]DeliveryStatus, len(m.Delivery))
	for k, v := range m.Delivery {
		cp.Delivery[k] = v
	}
	return &cp
}

// Summary is the conversation-level display status for the sender: the
// minimum status across all recipients, so a "read" checkmark only appears
// once every recipient has read.
func (m *Message) Summary() DeliveryStatus {
	min := StatusRead
	for _, r := range m.RecipientIDs {
		s, ok := m.Delivery[r]
		if !ok {
			s = StatusSent
		}
		if s.rank() < min.rank() {
			min = s
		}
	}
	return min
}

// Before orders messages ascending by creation time, ties broken by
// ascending id so the ordering is total and deterministic.
func (m *Message) Before(o *Message) bool {
	if !m.CreatedAt.Equal(o.CreatedAt) {
		return m.CreatedAt.Before(o.CreatedAt)
	}
	return m.ID < o.ID
}
