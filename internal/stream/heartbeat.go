package stream

import (
	"context"
	"time"

	"github.com/casedesk/caseline/internal/presence"
)

// StartHeartbeat refreshes the user's presence on a fixed cadence while
// the connection lives. It stops cleanly when done closes; no dangling
// timer survives the session.
func StartHeartbeat(store presence.Store, userID string, cadence time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(cadence)
		defer ticker.Stop()

		ctx := context.Background()

		for {
			select {
			case <-ticker.C:
				_ = store.Heartbeat(ctx, userID, time.Now().UTC())
			case <-done:
				return
			}
		}
	}()
}
