// Package events carries the engine's transient output to its subscribers:
// message activity, receipt updates and nudges. Delivery is fire-and-forget
// everywhere; a slow or absent subscriber never blocks or fails a publish.
package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeMessageSent     Type = "message_sent"
	TypeDeliveryReceipt Type = "delivery_receipt"
	TypeReadReceipt     Type = "read_receipt"
	TypeNudge           Type = "nudge"
)

// Event is the envelope pushed to UI subscribers and mirrored outward when
// a Kafka sink is configured.
type Event struct {
	Type       Type      `json:"type"`
	ThreadID   string    `json:"thread_id"`
	MessageID  string    `json:"message_id,omitempty"`
	From       string    `json:"from"`
	Recipients []string  `json:"recipients"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Multi fans a publish out to several sinks. Sink errors are swallowed by
// the sinks themselves; Multi only reports the first error for callers that
// care.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
