package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/domain"
	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/validator"
)

type SendMessageCommand struct {
	ThreadID     string
	SenderID     string
	RecipientIDs []string
	Kind         string
	Priority     string
	Body         string
}

// SendMessage builds a message from a draft, validates it and appends it to
// the store with delivery initialized to sent for every recipient. A fresh
// id is assigned; a draft without a thread starts a singleton conversation
// under that id.
func (s *Service) SendMessage(ctx context.Context, cmd SendMessageCommand) (*domain.Message, error) {
	log := observability.GetLogger(ctx)

	rec := validator.RawRecord{
		ID:           uuid.NewString(),
		ThreadID:     cmd.ThreadID,
		SenderID:     cmd.SenderID,
		RecipientIDs: cmd.RecipientIDs,
		Kind:         cmd.Kind,
		Priority:     cmd.Priority,
		Body:         cmd.Body,
		CreatedAt:    time.Now().UTC(),
	}

	msg, err := validator.Validate(rec)
	if err != nil {
		observability.RecordsValidatedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	observability.RecordsValidatedTotal.WithLabelValues("accepted").Inc()

	if err := s.store.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	log.Info("message sent",
		zap.String("message_id", msg.ID),
		zap.String("thread_id", msg.ThreadID),
		zap.String("sender_id", msg.SenderID),
	)

	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeMessageSent,
		ThreadID:   msg.ThreadID,
		MessageID:  msg.ID,
		From:       msg.SenderID,
		Recipients: msg.RecipientIDs,
		OccurredAt: msg.CreatedAt,
	}); err != nil {
		log.Error("message event publish failed", zap.Error(err))
	}

	return msg, nil
}
