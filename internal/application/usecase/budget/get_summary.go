// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// GetSummaryInput represents the input for the budget summary.
type GetSummaryInput struct {
	UserID uuid.UUID
	AsOf   *time.Time // Optional, defaults to now
}

// GetSummaryUseCase totals a user's budgets valid at a date.
type GetSummaryUseCase struct {
	aggregator *Aggregator
	clock      adapter.Clock
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(aggregator *Aggregator, clock adapter.Clock) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		aggregator: aggregator,
		clock:      clock,
	}
}

// Execute performs the summary.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*entity.BudgetSummary, error) {
	asOf := uc.clock.Now()
	if input.AsOf != nil {
		asOf = *input.AsOf
	}
	return uc.aggregator.Summary(ctx, input.UserID, asOf)
}
