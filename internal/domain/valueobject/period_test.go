package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowFor(t *testing.T) {
	tests := []struct {
		name   string
		period entity.BudgetPeriod
		start  time.Time
		want   PeriodWindow
	}{
		{"daily", entity.BudgetPeriodDaily, day(2024, 12, 5), PeriodWindow{day(2024, 12, 5), day(2024, 12, 5)}},
		{"weekly", entity.BudgetPeriodWeekly, day(2024, 12, 2), PeriodWindow{day(2024, 12, 2), day(2024, 12, 8)}},
		{"monthly", entity.BudgetPeriodMonthly, day(2024, 12, 1), PeriodWindow{day(2024, 12, 1), day(2024, 12, 31)}},
		{"monthly from january 31", entity.BudgetPeriodMonthly, day(2024, 1, 31), PeriodWindow{day(2024, 1, 31), day(2024, 2, 28)}},
		{"yearly", entity.BudgetPeriodYearly, day(2024, 1, 1), PeriodWindow{day(2024, 1, 1), day(2024, 12, 31)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowFor(tt.period, tt.start))
		})
	}
}

func TestNextWindow(t *testing.T) {
	next := NextWindow(entity.BudgetPeriodMonthly, day(2024, 12, 31))
	assert.Equal(t, day(2025, 1, 1), next.Start)
	assert.Equal(t, day(2025, 1, 31), next.End)
	assert.Equal(t, 31, next.Days())
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 12, 28, 22, 15, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysUntil(now, day(2024, 12, 31)))
	assert.Equal(t, 0, DaysUntil(now, day(2024, 12, 28)))
	assert.Equal(t, -1, DaysUntil(now, day(2024, 12, 27)))
}
