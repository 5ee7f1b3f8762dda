// Package nudge broadcasts transient attention signals to a thread's online
// participants. Nudges are never persisted and never retried.
package nudge

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/casedesk/caseline/internal/domain"
	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/presence"
)

const DefaultCooldown = 10 * time.Second

// ParticipantSource resolves the participant set of a thread, typically the
// union of senders and recipients over the thread's messages.
type ParticipantSource interface {
	Participants(ctx context.Context, threadID string) ([]string, error)
}

type pairKey struct {
	threadID string
	senderID string
}

// Dispatcher rate-limits nudges to one success per (thread, sender) pair
// per cooldown window and fans the signal out to online participants.
type Dispatcher struct {
	participants ParticipantSource
	presence     presence.Store
	publisher    events.Publisher
	cooldown     time.Duration

	mu       sync.Mutex
	limiters map[pairKey]*rate.Limiter
}

func NewDispatcher(ps ParticipantSource, pres presence.Store, pub events.Publisher, cooldown time.Duration) *Dispatcher {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Dispatcher{
		participants: ps,
		presence:     pres,
		publisher:    pub,
		cooldown:     cooldown,
		limiters:     make(map[pairKey]*rate.Limiter),
	}
}

// Nudge sends an attention signal to every online participant of threadID
// except senderID. A call inside the cooldown window fails with
// ErrRateLimited so the caller can surface feedback; per-participant
// delivery failures are logged, never retried, and never fail the call.
func (d *Dispatcher) Nudge(ctx context.Context, threadID, senderID string, now time.Time) error {
	log := observability.GetLogger(ctx)

	members, err := d.participants.Participants(ctx, threadID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return domain.ErrThreadNotFound
	}

	if !d.limiter(threadID, senderID).AllowN(now, 1) {
		observability.NudgesTotal.WithLabelValues("rate_limited").Inc()
		return domain.ErrRateLimited
	}

	targets := make([]string, 0, len(members))
	for _, userID := range members {
		if userID == senderID {
			continue
		}
		online, err := d.presence.IsOnline(ctx, userID, now)
		if err != nil {
			log.Error("nudge: presence lookup failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			continue
		}
		if online {
			targets = append(targets, userID)
		}
	}

	ev := events.Event{
		Type:       events.TypeNudge,
		ThreadID:   threadID,
		From:       senderID,
		Recipients: targets,
		OccurredAt: now,
	}
	if err := d.publisher.Publish(ctx, ev); err != nil {
		log.Error("nudge: broadcast failed",
			zap.String("thread_id", threadID),
			zap.Error(err),
		)
	}

	observability.NudgesTotal.WithLabelValues("sent").Inc()
	log.Info("nudge: dispatched",
		zap.String("thread_id", threadID),
		zap.String("sender_id", senderID),
		zap.Int("online_targets", len(targets)),
	)
	return nil
}

// limiter returns the cooldown limiter for a (thread, sender) pair. The
// token check in AllowN is atomic, so near-simultaneous calls cannot both
// succeed.
func (d *Dispatcher) limiter(threadID, senderID string) *rate.Limiter {
	key := pairKey{threadID: threadID, senderID: senderID}

	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(d.cooldown), 1)
		d.limiters[key] = l
	}
	return l
}
