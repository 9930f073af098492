package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func lockers(t *testing.T) map[string]adapter.KeyLocker {
	_, client := newRedis(t)
	return map[string]adapter.KeyLocker{
		"memory": NewMemoryLocker(),
		"redis":  NewRedisLocker(client, time.Minute),
	}
}

func TestKeyLocker_SerializesSameKey(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			unlock, err := locker.Lock(ctx, "budget:1")
			require.NoError(t, err)

			other, err := locker.Lock(ctx, "budget:2")
			require.NoError(t, err)
			other()

			waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()
			_, err = locker.Lock(waitCtx, "budget:1")
			assert.ErrorIs(t, err, context.DeadlineExceeded)

			acquired := make(chan struct{})
			go func() {
				second, err := locker.Lock(ctx, "budget:1")
				if err == nil {
					second()
				}
				close(acquired)
			}()

			unlock()
			unlock()
			select {
			case <-acquired:
			case <-time.After(2 * time.Second):
				t.Fatal("waiter never acquired the released lock")
			}
		})
	}
}

func TestRedisLocker_ExpiresAbandonedLock(t *testing.T) {
	server, client := newRedis(t)
	locker := NewRedisLocker(client, time.Second)
	ctx := context.Background()

	_, err := locker.Lock(ctx, "user-stats:1")
	require.NoError(t, err)
	server.FastForward(2 * time.Second)

	unlock, err := locker.Lock(ctx, "user-stats:1")
	require.NoError(t, err)
	unlock()
}

func TestRecomputeBacklog(t *testing.T) {
	_, client := newRedis(t)
	backlogs := map[string]adapter.RecomputeBacklog{
		"memory": NewMemoryBacklog(),
		"redis":  NewRedisBacklog(client),
	}

	for name, backlog := range backlogs {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := uuid.New()

			require.NoError(t, backlog.Add(ctx, userID, "user-stats:x"))
			require.NoError(t, backlog.Add(ctx, userID, "budget:a"))
			require.NoError(t, backlog.Add(ctx, userID, "budget:a"))

			users, err := backlog.Users(ctx)
			require.NoError(t, err)
			assert.Contains(t, users, userID)

			targets, err := backlog.Take(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, []string{"budget:a", "user-stats:x"}, targets)

			targets, err = backlog.Take(ctx, userID)
			require.NoError(t, err)
			assert.Empty(t, targets)

			users, err = backlog.Users(ctx)
			require.NoError(t, err)
			assert.NotContains(t, users, userID)
		})
	}
}

func TestTokenService_ValidateAccessToken(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("secret")
	userID := uuid.New()

	token, err := SignAccessToken("secret", userID, "ana@example.com", time.Hour)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	expired, err := SignAccessToken("secret", userID, "ana@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, expired)
	assert.ErrorIs(t, err, domainerror.ErrExpiredToken)

	forged, err := SignAccessToken("other", userID, "ana@example.com", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(ctx, forged)
	assert.ErrorIs(t, err, domainerror.ErrInvalidToken)
}
