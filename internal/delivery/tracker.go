// Package delivery drives the per-recipient status machine of a message:
// sent -> delivered -> read, forward only.
package delivery

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/domain"
	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/store"
)

// Tracker applies delivery transitions through the store's keyed mutation
// primitive, so concurrent transitions on the same message are serialized
// and a late MarkDelivered can never downgrade a read.
type Tracker struct {
	store store.MessageStore
}

func NewTracker(s store.MessageStore) *Tracker {
	return &Tracker{store: s}
}

// MarkDelivered upgrades (messageID, recipientID) from sent to delivered.
// Already delivered or read is a logged no-op. An unknown message or
// recipient fails with ErrMessageNotFound / ErrInvalidTransition.
func (t *Tracker) MarkDelivered(ctx context.Context, messageID, recipientID string) error {
	log := observability.GetLogger(ctx)

	return t.store.Mutate(ctx, messageID, func(m *domain.Message) error {
		current, ok := m.Delivery[recipientID]
		if !ok {
			return domain.ErrInvalidTransition
		}
		if current.AtLeast(domain.StatusDelivered) {
			log.Debug("delivery: mark delivered ignored, state already past",
				zap.String("message_id", messageID),
				zap.String("recipient_id", recipientID),
				zap.String("current", string(current)),
			)
			return nil
		}
		m.Delivery[recipientID] = domain.StatusDelivered
		observability.DeliveryTransitionsTotal.WithLabelValues("delivered").Inc()
		return nil
	})
}

// MarkRead moves (messageID, recipientID) to read from any state, passing
// through delivered implicitly, and records the acknowledgment time in the
// message's readBy map. Re-reading is a logged no-op that keeps the first
// acknowledgment time; there is no backward transition.
func (t *Tracker) MarkRead(ctx context.Context, messageID, recipientID string, at time.Time) error {
	log := observability.GetLogger(ctx)

	return t.store.Mutate(ctx, messageID, func(m *domain.Message) error {
		current, ok := m.Delivery[recipientID]
		if !ok {
			return domain.ErrInvalidTransition
		}
		if current == domain.StatusRead {
			log.Debug("delivery: mark read ignored, already read",
				zap.String("message_id", messageID),
				zap.String("recipient_id", recipientID),
			)
			return nil
		}
		m.Delivery[recipientID] = domain.StatusRead
		if _, seen := m.ReadBy[recipientID]; !seen {
			m.ReadBy[recipientID] = at
		}
		observability.DeliveryTransitionsTotal.WithLabelValues("read").Inc()
		return nil
	})
}
