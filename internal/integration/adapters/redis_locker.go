// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

const (
	lockKeyPrefix     = "ledger:lock:"
	lockRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker serializes callers across processes with SET NX PX.
type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a KeyLocker backed by Redis. A lock expires after ttl if
// its holder dies without releasing it.
func NewRedisLocker(client *redis.Client, ttl time.Duration) adapter.KeyLocker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

// Lock polls until the key is acquired or ctx ends.
func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					// The caller's context may already be done; release must still happen.
					releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
					defer cancel()
					if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
						slog.Warn("Failed to release lock", "key", key, "error", err)
					}
				})
			}, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
