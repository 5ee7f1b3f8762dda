package presence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/observability"
)

// Sweeper periodically prunes dead tracker entries. It is a cancellable
// scheduled task: Run blocks until ctx is done and leaves no timer behind.
type Sweeper struct {
	tracker   *Tracker
	interval  time.Duration
	retention time.Duration
}

func NewSweeper(t *Tracker, interval, retention time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Sweeper{tracker: t, interval: interval, retention: retention}
}

func (s *Sweeper) Run(ctx context.Context) {
	log := observability.GetLogger(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.tracker.Prune(time.Now(), s.retention); n > 0 {
				log.Info("presence: pruned stale entries", zap.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}
