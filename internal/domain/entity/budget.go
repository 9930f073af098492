// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a budget.
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// IsValid reports whether the period is known.
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodDaily, BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// BudgetStatus represents the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusPaused    BudgetStatus = "paused"
	BudgetStatusCompleted BudgetStatus = "completed"
	BudgetStatusCancelled BudgetStatus = "cancelled"
)

// IsValid reports whether the status is known.
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusActive, BudgetStatusPaused, BudgetStatusCompleted, BudgetStatusCancelled:
		return true
	}
	return false
}

// DefaultThresholdPercent is the default notification threshold.
const DefaultThresholdPercent = 80

// BudgetNotifications holds the threshold alert settings of a budget.
type BudgetNotifications struct {
	Enabled          bool
	ThresholdPercent int
	LastSentAt       *time.Time
}

// BudgetRollover holds the carry-over settings of a budget.
type BudgetRollover struct {
	Enabled     bool
	MaxRollover decimal.Decimal
}

// Budget represents a spending allowance for an expense category over a date window.
// ActualSpent, RemainingAmount and UtilizationRate are derived from the ledger.
type Budget struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CategoryID    uuid.UUID
	Amount        decimal.Decimal
	Period        BudgetPeriod
	StartDate     time.Time
	EndDate       time.Time
	Notifications BudgetNotifications
	Rollover      BudgetRollover
	Status        BudgetStatus

	ActualSpent     decimal.Decimal
	RemainingAmount decimal.Decimal
	UtilizationRate decimal.Decimal
	RecomputedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBudget creates a new active Budget entity with zeroed derived fields.
func NewBudget(
	userID, categoryID uuid.UUID,
	amount decimal.Decimal,
	period BudgetPeriod,
	startDate, endDate time.Time,
	notifications BudgetNotifications,
	rollover BudgetRollover,
) *Budget {
	now := time.Now().UTC()

	b := &Budget{
		ID:            uuid.New(),
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        amount,
		Period:        period,
		StartDate:     startDate.UTC(),
		EndDate:       endDate.UTC(),
		Notifications: notifications,
		Rollover:      rollover,
		Status:        BudgetStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.ApplySpent(decimal.Zero)
	return b
}

var hundred = decimal.NewFromInt(100)

// ApplySpent replaces the derived fields from a freshly scanned spending total.
// Utilization is clamped to [0,100] and is 0 for a zero allowance.
func (b *Budget) ApplySpent(actualSpent decimal.Decimal) {
	b.ActualSpent = actualSpent
	b.RemainingAmount = decimal.Max(decimal.Zero, b.Amount.Sub(actualSpent))
	b.UtilizationRate = UtilizationRate(actualSpent, b.Amount)
}

// UtilizationRate computes spent/amount as a percentage clamped to [0,100].
func UtilizationRate(spent, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	rate := spent.Div(amount).Mul(hundred).Round(2)
	if rate.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}

// IsOverBudget reports whether spending exceeds the allowance.
func (b *Budget) IsOverBudget() bool {
	return b.ActualSpent.GreaterThan(b.Amount)
}

// IsNearLimit reports whether utilization reached nearLimitPercent without going over.
func (b *Budget) IsNearLimit(nearLimitPercent int) bool {
	return !b.IsOverBudget() && b.UtilizationRate.GreaterThanOrEqual(decimal.NewFromInt(int64(nearLimitPercent)))
}

// Contains reports whether date falls inside the budget window.
// Both bounds are inclusive at day granularity.
func (b *Budget) Contains(date time.Time) bool {
	start, end := b.Window()
	d := date.UTC()
	return !d.Before(start) && d.Before(end)
}

// Window returns the half-open instant range [start, end) covered by the budget.
func (b *Budget) Window() (time.Time, time.Time) {
	start := TruncateDay(b.StartDate)
	end := TruncateDay(b.EndDate).AddDate(0, 0, 1)
	return start, end
}

// ValidAt reports whether the budget is active and its window contains asOf.
func (b *Budget) ValidAt(asOf time.Time) bool {
	return b.Status == BudgetStatusActive && b.Contains(asOf)
}

// TruncateDay returns midnight UTC of the given instant's day.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// BudgetSummary aggregates counters across a user's budgets valid at a date.
type BudgetSummary struct {
	AsOf           time.Time
	TotalBudgeted  decimal.Decimal
	TotalSpent     decimal.Decimal
	TotalRemaining decimal.Decimal
	BudgetCount    int
	OverBudget     int
	NearLimit      int
}

// BudgetWithCategory represents a budget with its associated category.
type BudgetWithCategory struct {
	Budget   *Budget
	Category *Category
}
