// Package presence maintains the online-user view from periodic heartbeats.
// A user is online iff their last heartbeat is within the presence window;
// the predicate is pure over timestamps, so pruning is an optimization, not
// a correctness requirement.
package presence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/casedesk/caseline/internal/observability"
)

const (
	// DefaultWindow tolerates one missed beat on the default 30s cadence.
	DefaultWindow = 35 * time.Second

	// DefaultRetention bounds how long a dead entry is kept before the
	// sweeper drops it.
	DefaultRetention = 24 * time.Hour
)

// Store is the presence boundary shared by the HTTP layer and the nudge
// dispatcher. Tracker is the in-process implementation; Redis backs
// multi-instance deployments.
type Store interface {
	Heartbeat(ctx context.Context, userID string, at time.Time) error
	IsOnline(ctx context.Context, userID string, now time.Time) (bool, error)
	OnlineUsers(ctx context.Context, now time.Time) ([]string, error)
}

// Tracker keeps userID -> last heartbeat in memory. Heartbeat ingestion is
// an overwrite per key; no cross-key coordination is needed.
type Tracker struct {
	mu     sync.RWMutex
	window time.Duration
	last   map[string]time.Time
}

func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		window: window,
		last:   make(map[string]time.Time),
	}
}

func (t *Tracker) Heartbeat(ctx context.Context, userID string, at time.Time) error {
	t.mu.Lock()
	// Heartbeats can arrive out of order across connections; keep the max.
	if prev, ok := t.last[userID]; !ok || at.After(prev) {
		t.last[userID] = at
	}
	t.mu.Unlock()

	observability.HeartbeatsTotal.Inc()
	return nil
}

func (t *Tracker) IsOnline(ctx context.Context, userID string, now time.Time) (bool, error) {
	t.mu.RLock()
	at, ok := t.last[userID]
	t.mu.RUnlock()

	return ok && now.Sub(at) <= t.window, nil
}

func (t *Tracker) OnlineUsers(ctx context.Context, now time.Time) ([]string, error) {
	t.mu.RLock()
	users := make([]string, 0)
	for id, at := range t.last {
		if now.Sub(at) <= t.window {
			users = append(users, id)
		}
	}
	t.mu.RUnlock()

	sort.Strings(users)
	return users, nil
}

// LastSeen returns the recorded heartbeat time, zero if the user was never
// seen.
func (t *Tracker) LastSeen(userID string) time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last[userID]
}

// Prune drops entries older than retention and reports how many were
// removed. Entries inside the presence window are never touched.
func (t *Tracker) Prune(now time.Time, retention time.Duration) int {
	if retention < t.window {
		retention = t.window
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, at := range t.last {
		if now.Sub(at) > retention {
			delete(t.last, id)
			removed++
		}
	}
	return removed
}
