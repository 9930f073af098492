// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetNotifier delivers threshold-crossed signals to an external transport.
// Delivery is best effort; callers log failures and move on.
type BudgetNotifier interface {
	NotifyBudgetThreshold(ctx context.Context, event entity.BudgetThresholdEvent) error
}
