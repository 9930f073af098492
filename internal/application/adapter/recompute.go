// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// KeyLocker serializes work per key across concurrent callers.
type KeyLocker interface {
	// Lock blocks until the key is held or ctx ends. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// RecomputeBacklog remembers recompute targets that failed so they can be retried.
// Targets are recompute keys such as "budget:<id>" or "user-stats:<id>".
type RecomputeBacklog interface {
	// Add records a failed target for the user.
	Add(ctx context.Context, userID uuid.UUID, target string) error

	// Take removes and returns every pending target of the user.
	Take(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Users lists the users that have pending targets.
	Users(ctx context.Context) ([]uuid.UUID, error)
}

// Clock reports the current time. Use cases take it so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// LedgerObserver is told about committed ledger mutations so derived data can follow.
// It never fails the caller: the ledger write is the unit of success.
type LedgerObserver interface {
	LedgerChanged(ctx context.Context, touches ...entity.LedgerTouch)
}

// BudgetRefresher recomputes one budget under its recompute lock and dispatches any
// threshold event. It returns the budget as stored after the refresh.
type BudgetRefresher interface {
	RefreshBudget(ctx context.Context, budgetID uuid.UUID) (*entity.Budget, error)
}
