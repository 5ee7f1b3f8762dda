package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/observability"
)

const onlineSetKey = "presence:users"

func userKey(userID string) string {
	return "presence:user:" + userID
}

// Redis is the presence Store for multi-instance deployments: one TTL key
// per user plus a membership set cleaned up opportunistically. Expiry is
// enforced by key TTLs, so the explicit timestamps of the Store contract are
// advisory here.
type Redis struct {
	client *redis.Client
	window time.Duration
}

func NewRedis(addr string, window time.Duration) *Redis {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		window: window,
	}
}

func (r *Redis) Heartbeat(ctx context.Context, userID string, at time.Time) error {
	pipe := r.client.TxPipeline()

	pipe.Set(ctx, userKey(userID), at.UTC().Format(time.RFC3339Nano), r.window)
	pipe.SAdd(ctx, onlineSetKey, userID)
	pipe.Expire(ctx, onlineSetKey, r.window+DefaultRetention)

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	observability.HeartbeatsTotal.Inc()
	return nil
}

func (r *Redis) IsOnline(ctx context.Context, userID string, now time.Time) (bool, error) {
	n, err := r.client.Exists(ctx, userKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) OnlineUsers(ctx context.Context, now time.Time) ([]string, error) {
	log := observability.GetLogger(ctx)

	userIDs, err := r.client.SMembers(ctx, onlineSetKey).Result()
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []string{}, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = userKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	online := make([]string, 0, len(userIDs))
	var stale []any

	for i, v := range values {
		if v == nil {
			stale = append(stale, userIDs[i])
			continue
		}
		online = append(online, userIDs[i])
	}

	// Async cleanup of expired members
	if len(stale) > 0 {
		go func() {
			err := r.client.SRem(context.Background(), onlineSetKey, stale...).Err()
			if err != nil {
				log.Error("presence: fail to cleanup stale members", zap.Error(err))
			}
		}()
	}

	return online, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
