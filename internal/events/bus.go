package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/observability"
)

const subscriberBuffer = 32

// Bus is the in-process pub/sub the UI layer subscribes to. Each subscriber
// registers for one user; a published event is fanned out to every
// subscriber of every recipient. Sends never block: when a subscriber's
// buffer is full the event is dropped for that subscriber and logged.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a channel for userID's events. The returned cancel
// func removes the subscription and closes the channel; it is safe to call
// once.
func (b *Bus) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[int]chan Event)
	}
	id := b.next
	b.next++
	b.subs[userID][id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if chans, ok := b.subs[userID]; ok {
			if c, ok := chans[id]; ok {
				delete(chans, id)
				close(c)
				if len(chans) == 0 {
					delete(b.subs, userID)
				}
			}
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(ctx context.Context, ev Event) error {
	log := observability.GetLogger(ctx)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, userID := range ev.Recipients {
		for _, ch := range b.subs[userID] {
			select {
			case ch <- ev:
			default:
				log.Warn("events: subscriber buffer full, dropping",
					zap.String("user_id", userID),
					zap.String("type", string(ev.Type)),
					zap.String("thread_id", ev.ThreadID),
				)
			}
		}
	}
	return nil
}
