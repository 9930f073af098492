// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"sync"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// memoryLocker is an in-process keyed mutex.
type memoryLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewMemoryLocker creates a KeyLocker that serializes callers within this process.
func NewMemoryLocker() adapter.KeyLocker {
	return &memoryLocker{
		held: make(map[string]chan struct{}),
	}
}

// Lock blocks until key is free or ctx ends.
func (l *memoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	for {
		l.mu.Lock()
		released, busy := l.held[key]
		if !busy {
			released = make(chan struct{})
			l.held[key] = released
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(released)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
