// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// AggregatorConfig holds the tunables of the budget aggregator.
type AggregatorConfig struct {
	NotificationCooldown time.Duration
	NearLimitPercent     int
	RenewalWindowDays    int
}

// Aggregator keeps the derived spending fields of budgets equal to a scan of the ledger.
// It never writes ledger rows and performs no notification I/O itself.
type Aggregator struct {
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	clock           adapter.Clock
	cfg             AggregatorConfig
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
	clock adapter.Clock,
	cfg AggregatorConfig,
) *Aggregator {
	return &Aggregator{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		clock:           clock,
		cfg:             cfg,
	}
}

// RecomputeKey is the lock and backlog key of a budget.
func RecomputeKey(budgetID uuid.UUID) string {
	return "budget:" + budgetID.String()
}

// Recompute rescans the ledger for the budget window and replaces the derived fields.
// A threshold event is returned when the notification rule fires. On failure nothing
// is written and the previously stored values stay in place.
func (a *Aggregator) Recompute(ctx context.Context, budgetID uuid.UUID) (*entity.Budget, *entity.BudgetThresholdEvent, error) {
	target := RecomputeKey(budgetID)

	budget, err := a.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, nil, err
		}
		return nil, nil, recomputeError(target, err)
	}

	start, end := budget.Window()
	spent, err := a.transactionRepo.SumExpenses(ctx, budget.UserID, budget.CategoryID, start, end)
	if err != nil {
		return nil, nil, recomputeError(target, err)
	}

	now := a.clock.Now().UTC()
	budget.ApplySpent(spent)
	budget.RecomputedAt = &now
	event := a.CheckNotification(budget, now)

	if err := a.budgetRepo.UpdateDerived(ctx, budget); err != nil {
		return nil, nil, recomputeError(target, err)
	}
	return budget, event, nil
}

// CheckNotification decides whether the freshly recomputed budget crosses its threshold.
// When it does, LastSentAt is stamped and the event is returned; at most one event is
// produced per cooldown.
func (a *Aggregator) CheckNotification(budget *entity.Budget, now time.Time) *entity.BudgetThresholdEvent {
	n := budget.Notifications
	if !n.Enabled || budget.Status != entity.BudgetStatusActive || !budget.ActualSpent.IsPositive() {
		return nil
	}
	if budget.UtilizationRate.LessThan(decimal.NewFromInt(int64(n.ThresholdPercent))) {
		return nil
	}
	if n.LastSentAt != nil && now.Sub(*n.LastSentAt) <= a.cfg.NotificationCooldown {
		return nil
	}

	budget.Notifications.LastSentAt = &now
	return &entity.BudgetThresholdEvent{
		UserID:           budget.UserID,
		BudgetID:         budget.ID,
		CategoryID:       budget.CategoryID,
		UtilizationRate:  budget.UtilizationRate,
		ThresholdPercent: n.ThresholdPercent,
		ActualSpent:      budget.ActualSpent,
		Amount:           budget.Amount,
		OverBudget:       budget.IsOverBudget(),
		OccurredAt:       now,
	}
}

// FindAffectedBudgets returns every budget of the user and category whose window contains date.
func (a *Aggregator) FindAffectedBudgets(ctx context.Context, userID, categoryID uuid.UUID, date time.Time) ([]*entity.Budget, error) {
	budgets, err := a.budgetRepo.FindCovering(ctx, userID, categoryID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find affected budgets: %w", err)
	}
	return budgets, nil
}

// Summary totals the user's active budgets valid at asOf from their stored derived fields.
// Overlapping budgets each count their own spending.
func (a *Aggregator) Summary(ctx context.Context, userID uuid.UUID, asOf time.Time) (*entity.BudgetSummary, error) {
	budgets, err := a.budgetRepo.FindActiveAt(ctx, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to find active budgets: %w", err)
	}

	summary := &entity.BudgetSummary{
		AsOf:           asOf.UTC(),
		TotalBudgeted:  decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for _, b := range budgets {
		summary.BudgetCount++
		summary.TotalBudgeted = summary.TotalBudgeted.Add(b.Amount)
		summary.TotalSpent = summary.TotalSpent.Add(b.ActualSpent)
		summary.TotalRemaining = summary.TotalRemaining.Add(b.RemainingAmount)
		switch {
		case b.IsOverBudget():
			summary.OverBudget++
		case b.IsNearLimit(a.cfg.NearLimitPercent):
			summary.NearLimit++
		}
	}
	return summary, nil
}

// RenewalDue reports whether an active budget ends within the renewal window.
func (a *Aggregator) RenewalDue(budget *entity.Budget, now time.Time) bool {
	if budget.Status != entity.BudgetStatusActive {
		return false
	}
	return valueobject.DaysUntil(now, budget.EndDate) <= a.cfg.RenewalWindowDays
}

func recomputeError(target string, err error) error {
	code := domainerror.ErrCodeRecomputeFailed
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = domainerror.ErrCodeRecomputeTimeout
	case errors.Is(err, domainerror.ErrStoreUnavailable):
		code = domainerror.ErrCodeStoreUnavailable
	}
	return domainerror.NewConsistencyError(code, target, "failed to recompute budget",
		fmt.Errorf("%w: %w", domainerror.ErrRecomputeFailed, err))
}
