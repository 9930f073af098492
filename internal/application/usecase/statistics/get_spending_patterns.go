// Package statistics contains the ledger rollups and analytical views.
package statistics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// GetPaymentMethodsInput represents the input for the payment method breakdown.
type GetPaymentMethodsInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// GetPaymentMethodsOutput represents the output of the payment method breakdown.
type GetPaymentMethodsOutput struct {
	Range DateRange
	Rows  []entity.PaymentMethodRow
}

// GetPaymentMethodsUseCase groups spending by payment method.
type GetPaymentMethodsUseCase struct {
	rollup *Rollup
	clock  adapter.Clock
}

// NewGetPaymentMethodsUseCase creates a new GetPaymentMethodsUseCase instance.
func NewGetPaymentMethodsUseCase(rollup *Rollup, clock adapter.Clock) *GetPaymentMethodsUseCase {
	return &GetPaymentMethodsUseCase{
		rollup: rollup,
		clock:  clock,
	}
}

// Execute performs the breakdown. The range defaults to the current month.
func (uc *GetPaymentMethodsUseCase) Execute(ctx context.Context, input GetPaymentMethodsInput) (*GetPaymentMethodsOutput, error) {
	r, err := resolveRange(input.StartDate, input.EndDate, lastMonths(uc.clock.Now(), 1))
	if err != nil {
		return nil, err
	}

	rows, err := uc.rollup.PaymentMethodBreakdown(ctx, input.UserID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return &GetPaymentMethodsOutput{Range: r, Rows: rows}, nil
}

// GetTimeOfDayInput represents the input for the time-of-day pattern.
type GetTimeOfDayInput struct {
	UserID    uuid.UUID
	Months    int        // Optional, defaults to 3
	StartDate *time.Time // Optional, overrides the Months lookback
	EndDate   *time.Time // Optional, overrides the Months lookback
}

// GetTimeOfDayOutput represents the output of the time-of-day pattern.
type GetTimeOfDayOutput struct {
	Range DateRange
	Rows  []entity.TimeOfDayRow
}

// GetTimeOfDayUseCase buckets spending by weekday/weekend and part of day.
type GetTimeOfDayUseCase struct {
	rollup *Rollup
	clock  adapter.Clock
}

// NewGetTimeOfDayUseCase creates a new GetTimeOfDayUseCase instance.
func NewGetTimeOfDayUseCase(rollup *Rollup, clock adapter.Clock) *GetTimeOfDayUseCase {
	return &GetTimeOfDayUseCase{
		rollup: rollup,
		clock:  clock,
	}
}

// Execute performs the pattern query over the given range, or the last Months
// months when no bound is given.
func (uc *GetTimeOfDayUseCase) Execute(ctx context.Context, input GetTimeOfDayInput) (*GetTimeOfDayOutput, error) {
	months := input.Months
	if months == 0 {
		months = 3
	}
	if err := validateMonths(months); err != nil {
		return nil, err
	}

	r, err := resolveRange(input.StartDate, input.EndDate, lastMonths(uc.clock.Now(), months))
	if err != nil {
		return nil, err
	}
	rows, err := uc.rollup.TimeOfDayPattern(ctx, input.UserID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return &GetTimeOfDayOutput{Range: r, Rows: rows}, nil
}
