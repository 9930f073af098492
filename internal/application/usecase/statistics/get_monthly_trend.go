// Package statistics contains the ledger rollups and analytical views.
package statistics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// GetMonthlyTrendInput represents the input for the monthly trend.
// StartDate and EndDate are inclusive days; when absent the last Months months are used.
type GetMonthlyTrendInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Months    int
}

// GetMonthlyTrendOutput represents the output of the monthly trend.
type GetMonthlyTrendOutput struct {
	Range DateRange
	Rows  []entity.MonthlyTrendRow
}

// GetMonthlyTrendUseCase returns income and expense per month.
type GetMonthlyTrendUseCase struct {
	rollup *Rollup
	clock  adapter.Clock
}

// NewGetMonthlyTrendUseCase creates a new GetMonthlyTrendUseCase instance.
func NewGetMonthlyTrendUseCase(rollup *Rollup, clock adapter.Clock) *GetMonthlyTrendUseCase {
	return &GetMonthlyTrendUseCase{
		rollup: rollup,
		clock:  clock,
	}
}

// Execute performs the trend query. Months without activity are not filled in.
func (uc *GetMonthlyTrendUseCase) Execute(ctx context.Context, input GetMonthlyTrendInput) (*GetMonthlyTrendOutput, error) {
	months := input.Months
	if months == 0 {
		months = DefaultTrendMonths
	}
	if err := validateMonths(months); err != nil {
		return nil, err
	}

	r, err := resolveRange(input.StartDate, input.EndDate, lastMonths(uc.clock.Now(), months))
	if err != nil {
		return nil, err
	}

	rows, err := uc.rollup.MonthlyTrend(ctx, input.UserID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return &GetMonthlyTrendOutput{Range: r, Rows: rows}, nil
}
