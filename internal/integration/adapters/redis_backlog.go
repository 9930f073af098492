// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

const (
	backlogUsersKey  = "ledger:backlog:users"
	backlogKeyPrefix = "ledger:backlog:user:"
)

// redisBacklog keeps failed recompute targets in Redis sets so they survive restarts.
type redisBacklog struct {
	client *redis.Client
}

// NewRedisBacklog creates a RecomputeBacklog backed by Redis.
func NewRedisBacklog(client *redis.Client) adapter.RecomputeBacklog {
	return &redisBacklog{
		client: client,
	}
}

func backlogKey(userID uuid.UUID) string {
	return backlogKeyPrefix + userID.String()
}

// Add records a failed target for the user.
func (b *redisBacklog) Add(ctx context.Context, userID uuid.UUID, target string) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, backlogKey(userID), target)
		pipe.SAdd(ctx, backlogUsersKey, userID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add backlog target: %w", err)
	}
	return nil
}

// Take removes and returns every pending target of the user, sorted.
func (b *redisBacklog) Take(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var members *redis.StringSliceCmd
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		members = pipe.SMembers(ctx, backlogKey(userID))
		pipe.Del(ctx, backlogKey(userID))
		pipe.SRem(ctx, backlogUsersKey, userID.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take backlog targets: %w", err)
	}

	targets := members.Val()
	sort.Strings(targets)
	return targets, nil
}

// Users lists the users that have pending targets.
func (b *redisBacklog) Users(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := b.client.SMembers(ctx, backlogUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list backlog users: %w", err)
	}

	users := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		users = append(users, parsed)
	}
	return users, nil
}
