package nudge

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/casedesk/caseline/internal/domain"
	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/presence"
)

type staticParticipants map[string][]string

func (s staticParticipants) Participants(ctx context.Context, threadID string) ([]string, error) {
	return s[threadID], nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capturePublisher) Publish(ctx context.Context, ev events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) last(t *testing.T) events.Event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		t.Fatal("No event published")
	}
	return c.events[len(c.events)-1]
}

func setup(participants staticParticipants) (*Dispatcher, *presence.Tracker, *capturePublisher) {
	tracker := presence.NewTracker(35 * time.Second)
	pub := &capturePublisher{}
	d := NewDispatcher(participants, tracker, pub, 10*time.Second)
	return d, tracker, pub
}

func TestNudge_TargetsOnlineParticipantsExceptSender(t *testing.T) {
	ctx := context.Background()
	d, tracker, pub := setup(staticParticipants{"T1": {"A", "B", "C", "D"}})

	now := time.Unix(1000, 0).UTC()
	tracker.Heartbeat(ctx, "A", now) // sender, excluded even though online
	tracker.Heartbeat(ctx, "B", now)
	tracker.Heartbeat(ctx, "C", now.Add(-time.Hour)) // offline

	if err := d.Nudge(ctx, "T1", "A", now); err != nil {
		t.Fatalf("Nudge: %v", err)
	}

	ev := pub.last(t)
	if ev.Type != events.TypeNudge {
		t.Errorf("Expected nudge event, got %s", ev.Type)
	}
	if !reflect.DeepEqual(ev.Recipients, []string{"B"}) {
		t.Errorf("Expected only online non-sender B, got %v", ev.Recipients)
	}
}

func TestNudge_CooldownRejectsSecondCall(t *testing.T) {
	ctx := context.Background()
	d, tracker, _ := setup(staticParticipants{"T1": {"A", "B"}})

	now := time.Unix(1000, 0).UTC()
	tracker.Heartbeat(ctx, "B", now)

	if err := d.Nudge(ctx, "T1", "A", now); err != nil {
		t.Fatalf("First nudge: %v", err)
	}
	if err := d.Nudge(ctx, "T1", "A", now.Add(time.Second)); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited inside cooldown, got %v", err)
	}
	if err := d.Nudge(ctx, "T1", "A", now.Add(11*time.Second)); err != nil {
		t.Errorf("Expected success after cooldown, got %v", err)
	}
}

func TestNudge_CooldownIsPerPair(t *testing.T) {
	ctx := context.Background()
	d, tracker, _ := setup(staticParticipants{
		"T1": {"A", "B"},
		"T2": {"A", "B"},
	})

	now := time.Unix(1000, 0).UTC()
	tracker.Heartbeat(ctx, "B", now)

	if err := d.Nudge(ctx, "T1", "A", now); err != nil {
		t.Fatal(err)
	}
	// Different thread and different sender are independent pairs.
	if err := d.Nudge(ctx, "T2", "A", now); err != nil {
		t.Errorf("Different thread should not share the cooldown, got %v", err)
	}
	if err := d.Nudge(ctx, "T1", "B", now); err != nil {
		t.Errorf("Different sender should not share the cooldown, got %v", err)
	}
}

func TestNudge_ConcurrentCallsSingleSuccess(t *testing.T) {
	ctx := context.Background()
	d, tracker, _ := setup(staticParticipants{"T1": {"A", "B"}})

	now := time.Unix(1000, 0).UTC()
	tracker.Heartbeat(ctx, "B", now)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.Nudge(ctx, "T1", "A", now); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("Expected exactly one success under contention, got %d", succeeded)
	}
}

func TestNudge_UnknownThread(t *testing.T) {
	d, _, _ := setup(staticParticipants{})

	err := d.Nudge(context.Background(), "missing", "A", time.Now())
	if !errors.Is(err, domain.ErrThreadNotFound) {
		t.Errorf("Expected ErrThreadNotFound, got %v", err)
	}
}
