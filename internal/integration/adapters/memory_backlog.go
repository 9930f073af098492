// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// memoryBacklog keeps failed recompute targets in process memory.
type memoryBacklog struct {
	mu      sync.Mutex
	pending map[uuid.UUID]map[string]struct{}
}

// NewMemoryBacklog creates an in-process RecomputeBacklog.
func NewMemoryBacklog() adapter.RecomputeBacklog {
	return &memoryBacklog{
		pending: make(map[uuid.UUID]map[string]struct{}),
	}
}

// Add records a failed target for the user.
func (b *memoryBacklog) Add(_ context.Context, userID uuid.UUID, target string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	targets, ok := b.pending[userID]
	if !ok {
		targets = make(map[string]struct{})
		b.pending[userID] = targets
	}
	targets[target] = struct{}{}
	return nil
}

// Take removes and returns every pending target of the user, sorted.
func (b *memoryBacklog) Take(_ context.Context, userID uuid.UUID) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	targets := b.pending[userID]
	delete(b.pending, userID)

	result := make([]string, 0, len(targets))
	for t := range targets {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// Users lists the users that have pending targets.
func (b *memoryBacklog) Users(_ context.Context) ([]uuid.UUID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	users := make([]uuid.UUID, 0, len(b.pending))
	for id := range b.pending {
		users = append(users, id)
	}
	return users, nil
}
