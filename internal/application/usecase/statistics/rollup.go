// Package statistics contains the ledger rollups and analytical views.
package statistics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

var hundred = decimal.NewFromInt(100)

// Rollup derives user-level counters and grouped views from active ledger entries.
// Every view is recomputed on read; only the lifetime counters are persisted.
type Rollup struct {
	transactionRepo adapter.TransactionRepository
	statsRepo       adapter.UserStatisticsRepository
	clock           adapter.Clock
}

// NewRollup creates a new Rollup instance.
func NewRollup(
	transactionRepo adapter.TransactionRepository,
	statsRepo adapter.UserStatisticsRepository,
	clock adapter.Clock,
) *Rollup {
	return &Rollup{
		transactionRepo: transactionRepo,
		statsRepo:       statsRepo,
		clock:           clock,
	}
}

// RecomputeKey is the lock and backlog key of a user's lifetime counters.
func RecomputeKey(userID uuid.UUID) string {
	return "user-stats:" + userID.String()
}

// RecomputeUserStats rescans the user's active entries and replaces the stored counters.
// Nothing is written when the scan fails.
func (r *Rollup) RecomputeUserStats(ctx context.Context, userID uuid.UUID) (*entity.UserStatistics, error) {
	target := RecomputeKey(userID)

	totals, err := r.transactionRepo.GetLifetimeTotals(ctx, userID)
	if err != nil {
		return nil, recomputeError(target, err)
	}

	stats := &entity.UserStatistics{
		UserID:           userID,
		TotalIncome:      totals.Income,
		TotalExpense:     totals.Expense,
		TransactionCount: totals.Count,
		UpdatedAt:        r.clock.Now().UTC(),
	}
	if err := r.statsRepo.Replace(ctx, stats); err != nil {
		return nil, recomputeError(target, err)
	}
	return stats, nil
}

// MonthlyTrend groups active entries in [start, end) by calendar month.
// Only months with activity are returned, oldest first.
func (r *Rollup) MonthlyTrend(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.MonthlyTrendRow, error) {
	points, err := r.transactionRepo.FindLedgerPoints(ctx, userID, nil, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger points: %w", err)
	}
	return bucketByMonth(points), nil
}

// CategoryRanking groups active expenses in [start, end) by category, largest first.
// Percentages are shares of the whole range, so they stay stable when top truncates.
func (r *Rollup) CategoryRanking(ctx context.Context, userID uuid.UUID, start, end time.Time, top int) ([]entity.CategoryRankingRow, decimal.Decimal, error) {
	totals, err := r.transactionRepo.SumExpensesByCategory(ctx, userID, start, end)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to group expenses by category: %w", err)
	}

	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Total)
	}

	rows := make([]entity.CategoryRankingRow, len(totals))
	for i, t := range totals {
		rows[i] = entity.CategoryRankingRow{
			CategoryID:    t.CategoryID,
			TotalAmount:   t.Total,
			Count:         int(t.Count),
			AverageAmount: average(t.Total, t.Count),
			Percentage:    percentage(t.Total, grand),
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].TotalAmount.Equal(rows[j].TotalAmount) {
			return rows[i].TotalAmount.GreaterThan(rows[j].TotalAmount)
		}
		return rows[i].CategoryID.String() < rows[j].CategoryID.String()
	})

	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	return rows, grand, nil
}

// PaymentMethodBreakdown groups active expenses in [start, end) by payment method, largest first.
func (r *Rollup) PaymentMethodBreakdown(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.PaymentMethodRow, error) {
	totals, err := r.transactionRepo.SumExpensesByPaymentMethod(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses by payment method: %w", err)
	}

	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Total)
	}

	rows := make([]entity.PaymentMethodRow, len(totals))
	for i, t := range totals {
		rows[i] = entity.PaymentMethodRow{
			PaymentMethod: t.PaymentMethod,
			TotalAmount:   t.Total,
			Count:         int(t.Count),
			Percentage:    percentage(t.Total, grand),
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].TotalAmount.Equal(rows[j].TotalAmount) {
			return rows[i].TotalAmount.GreaterThan(rows[j].TotalAmount)
		}
		return rows[i].PaymentMethod < rows[j].PaymentMethod
	})
	return rows, nil
}

// TimeOfDayPattern buckets active expenses in [start, end) by weekend flag and part of day.
// Hours are taken in UTC.
func (r *Rollup) TimeOfDayPattern(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.TimeOfDayRow, error) {
	expense := entity.TransactionTypeExpense
	points, err := r.transactionRepo.FindLedgerPoints(ctx, userID, &expense, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger points: %w", err)
	}
	return bucketByTimeOfDay(points), nil
}

func bucketByMonth(points []adapter.LedgerPoint) []entity.MonthlyTrendRow {
	rows := make([]entity.MonthlyTrendRow, 0)
	index := make(map[[2]int]int)

	for _, p := range points {
		d := p.TransactionDate.UTC()
		key := [2]int{d.Year(), int(d.Month())}
		i, ok := index[key]
		if !ok {
			rows = append(rows, entity.MonthlyTrendRow{
				Year:    d.Year(),
				Month:   d.Month(),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
			i = len(rows) - 1
			index[key] = i
		}

		row := &rows[i]
		row.TransactionCount++
		if p.Type == entity.TransactionTypeIncome {
			row.Income = row.Income.Add(p.Amount)
		} else {
			row.Expense = row.Expense.Add(p.Amount)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

var dayPartOrder = map[entity.DayPart]int{
	entity.DayPartNight:     0,
	entity.DayPartMorning:   1,
	entity.DayPartAfternoon: 2,
	entity.DayPartEvening:   3,
}

func bucketByTimeOfDay(points []adapter.LedgerPoint) []entity.TimeOfDayRow {
	type key struct {
		weekend bool
		part    entity.DayPart
	}
	totals := make(map[key]*entity.TimeOfDayRow)

	for _, p := range points {
		d := p.TransactionDate.UTC()
		k := key{
			weekend: d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
			part:    entity.DayPartOf(d.Hour()),
		}
		row, ok := totals[k]
		if !ok {
			row = &entity.TimeOfDayRow{Weekend: k.weekend, DayPart: k.part, TotalAmount: decimal.Zero}
			totals[k] = row
		}
		row.TotalAmount = row.TotalAmount.Add(p.Amount)
		row.Count++
	}

	rows := make([]entity.TimeOfDayRow, 0, len(totals))
	for _, row := range totals {
		row.AverageAmount = average(row.TotalAmount, int64(row.Count))
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Weekend != rows[j].Weekend {
			return !rows[i].Weekend
		}
		return dayPartOrder[rows[i].DayPart] < dayPartOrder[rows[j].DayPart]
	})
	return rows
}

func average(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}

func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func recomputeError(target string, err error) error {
	code := domainerror.ErrCodeRecomputeFailed
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = domainerror.ErrCodeRecomputeTimeout
	case errors.Is(err, domainerror.ErrStoreUnavailable):
		code = domainerror.ErrCodeStoreUnavailable
	}
	return domainerror.NewConsistencyError(code, target, "failed to recompute user statistics",
		fmt.Errorf("%w: %w", domainerror.ErrRecomputeFailed, err))
}
