package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/observability"
)

// AcknowledgeDelivery applies the sent -> delivered transition for one
// recipient and notifies the sender's subscribers.
func (s *Service) AcknowledgeDelivery(ctx context.Context, messageID, recipientID string) error {
	if err := s.tracker.MarkDelivered(ctx, messageID, recipientID); err != nil {
		return err
	}
	s.publishReceipt(ctx, events.TypeDeliveryReceipt, messageID, recipientID, time.Now().UTC())
	return nil
}

// AcknowledgeRead moves one recipient to read, recording the acknowledgment
// time in the message's readBy map, and notifies the sender's subscribers.
func (s *Service) AcknowledgeRead(ctx context.Context, messageID, recipientID string, at time.Time) error {
	if err := s.tracker.MarkRead(ctx, messageID, recipientID, at); err != nil {
		return err
	}
	s.publishReceipt(ctx, events.TypeReadReceipt, messageID, recipientID, at)
	return nil
}

func (s *Service) publishReceipt(ctx context.Context, t events.Type, messageID, recipientID string, at time.Time) {
	log := observability.GetLogger(ctx)

	msg, err := s.store.Get(ctx, messageID)
	if err != nil {
		log.Error("receipt event: message lookup failed",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		return
	}

	err = s.publisher.Publish(ctx, events.Event{
		Type:       t,
		ThreadID:   msg.ThreadID,
		MessageID:  messageID,
		From:       recipientID,
		Recipients: []string{msg.SenderID},
		OccurredAt: at,
	})
	if err != nil {
		log.Error("receipt event publish failed", zap.Error(err))
	}
}
