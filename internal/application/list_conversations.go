package application

import (
	"context"

	"github.com/casedesk/caseline/internal/domain"
	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/thread"
	"github.com/casedesk/caseline/internal/unread"
)

// ListConversations aggregates the full message snapshot for viewerID and
// returns the conversations the viewer participates in, most recently
// active first.
func (s *Service) ListConversations(ctx context.Context, viewerID string) ([]*domain.Conversation, error) {
	msgs, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	observability.AggregationsTotal.Inc()

	conversations := thread.Aggregate(msgs, viewerID)
	visible := make([]*domain.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if c.HasParticipant(viewerID) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// GetConversation aggregates a single thread for viewerID.
func (s *Service) GetConversation(ctx context.Context, threadID, viewerID string) (*domain.Conversation, error) {
	msgs, err := s.store.Thread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, domain.ErrThreadNotFound
	}

	observability.AggregationsTotal.Inc()
	return thread.Aggregate(msgs, viewerID)[0], nil
}

// Participants resolves a thread's participant set, satisfying the nudge
// dispatcher's source interface. An unknown thread has no participants.
func (s *Service) Participants(ctx context.Context, threadID string) ([]string, error) {
	msgs, err := s.store.Thread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return thread.Aggregate(msgs, "")[0].ParticipantIDs, nil
}

// Badges is the sidebar view: per-thread unread badges plus the total for
// the application badge.
func (s *Service) Badges(ctx context.Context, viewerID string) ([]unread.Badge, int, error) {
	conversations, err := s.ListConversations(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return unread.Badges(conversations), unread.Total(conversations), nil
}
