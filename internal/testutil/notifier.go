// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// Notifier records threshold events. Err, when set, is returned from every call
// after the event was recorded.
type Notifier struct {
	mu     sync.Mutex
	Err    error
	events []entity.BudgetThresholdEvent
}

// NotifyBudgetThreshold records the event.
func (n *Notifier) NotifyBudgetThreshold(_ context.Context, event entity.BudgetThresholdEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.Err
}

// Events returns a copy of the recorded events.
func (n *Notifier) Events() []entity.BudgetThresholdEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.BudgetThresholdEvent(nil), n.events...)
}
