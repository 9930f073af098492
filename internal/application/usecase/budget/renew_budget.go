// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// RenewBudgetInput represents the input for budget renewal.
type RenewBudgetInput struct {
	BudgetID uuid.UUID
	UserID   uuid.UUID
}

// RenewBudgetOutput holds the closed budget and its successor.
type RenewBudgetOutput struct {
	Previous *entity.Budget
	Next     *entity.Budget
	Carried  decimal.Decimal
}

// RenewBudgetUseCase opens the next period of a budget that is close to its end.
type RenewBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	aggregator *Aggregator
	refresher  adapter.BudgetRefresher
	clock      adapter.Clock
}

// NewRenewBudgetUseCase creates a new RenewBudgetUseCase instance.
func NewRenewBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	aggregator *Aggregator,
	refresher adapter.BudgetRefresher,
	clock adapter.Clock,
) *RenewBudgetUseCase {
	return &RenewBudgetUseCase{
		budgetRepo: budgetRepo,
		aggregator: aggregator,
		refresher:  refresher,
		clock:      clock,
	}
}

// Execute creates the next window's budget and completes the current one.
// With rollover enabled, min(remaining, maxRollover) is added to the new allowance.
func (uc *RenewBudgetUseCase) Execute(ctx context.Context, input RenewBudgetInput) (*RenewBudgetOutput, error) {
	current, err := findOwnedBudget(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if !uc.aggregator.RenewalDue(current, now) {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetNotRenewable,
			"budget is not due for renewal",
			domainerror.ErrBudgetNotRenewable,
		)
	}

	// Carry-over must be based on a fresh scan, not on whatever was stored last.
	current, err = uc.refresher.RefreshBudget(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh budget before renewal: %w", err)
	}

	carried := decimal.Zero
	if current.Rollover.Enabled {
		carried = decimal.Min(current.RemainingAmount, current.Rollover.MaxRollover)
	}

	window := valueobject.NextWindow(current.Period, current.EndDate)
	next := entity.NewBudget(
		current.UserID,
		current.CategoryID,
		current.Amount.Add(carried),
		current.Period,
		window.Start,
		window.End,
		entity.BudgetNotifications{
			Enabled:          current.Notifications.Enabled,
			ThresholdPercent: current.Notifications.ThresholdPercent,
		},
		current.Rollover,
	)

	if err := uc.budgetRepo.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to create renewed budget: %w", err)
	}

	current.Status = entity.BudgetStatusCompleted
	current.UpdatedAt = time.Now().UTC()
	if err := uc.budgetRepo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to complete budget: %w", err)
	}

	return &RenewBudgetOutput{
		Previous: current,
		Next:     refresh(ctx, uc.refresher, next),
		Carried:  carried,
	}, nil
}
