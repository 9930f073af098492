// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// Observer records every ledger notification.
type Observer struct {
	mu    sync.Mutex
	Calls [][]entity.LedgerTouch
}

// LedgerChanged records the touches.
func (o *Observer) LedgerChanged(_ context.Context, touches ...entity.LedgerTouch) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Calls = append(o.Calls, touches)
}

// Last returns the most recent notification, or nil.
func (o *Observer) Last() []entity.LedgerTouch {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Calls) == 0 {
		return nil
	}
	return o.Calls[len(o.Calls)-1]
}
