// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserStatistics holds the lifetime counters of a user's active ledger entries.
// It is always replaced wholesale by a recompute, never patched.
type UserStatistics struct {
	UserID           uuid.UUID
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	TransactionCount int64
	UpdatedAt        time.Time
}

// Balance returns income minus expense.
func (s *UserStatistics) Balance() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// MonthlyTrendRow is one (year, month) bucket of a user's activity.
type MonthlyTrendRow struct {
	Year             int
	Month            time.Month
	Income           decimal.Decimal
	Expense          decimal.Decimal
	TransactionCount int
}

// CategoryRankingRow is one category's share of expense spending in a range.
type CategoryRankingRow struct {
	CategoryID    uuid.UUID
	TotalAmount   decimal.Decimal
	Count         int
	AverageAmount decimal.Decimal
	Percentage    decimal.Decimal
}

// PaymentMethodRow is the expense total for one payment method.
type PaymentMethodRow struct {
	PaymentMethod PaymentMethod
	TotalAmount   decimal.Decimal
	Count         int
	Percentage    decimal.Decimal
}

// DayPart buckets an hour of the day.
type DayPart string

const (
	DayPartNight     DayPart = "night"
	DayPartMorning   DayPart = "morning"
	DayPartAfternoon DayPart = "afternoon"
	DayPartEvening   DayPart = "evening"
)

// DayPartOf returns the bucket for an hour in [0,23].
func DayPartOf(hour int) DayPart {
	switch {
	case hour < 6:
		return DayPartNight
	case hour < 12:
		return DayPartMorning
	case hour < 18:
		return DayPartAfternoon
	default:
		return DayPartEvening
	}
}

// TimeOfDayRow is the expense total for one (weekend, day part) bucket.
type TimeOfDayRow struct {
	Weekend       bool
	DayPart       DayPart
	TotalAmount   decimal.Decimal
	Count         int
	AverageAmount decimal.Decimal
}
