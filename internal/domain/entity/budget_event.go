// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetThresholdEvent is emitted when a recomputed budget crosses its
// notification threshold. It is a debounced signal, not a delivery guarantee.
type BudgetThresholdEvent struct {
	UserID           uuid.UUID
	BudgetID         uuid.UUID
	CategoryID       uuid.UUID
	UtilizationRate  decimal.Decimal
	ThresholdPercent int
	ActualSpent      decimal.Decimal
	Amount           decimal.Decimal
	OverBudget       bool
	OccurredAt       time.Time
}
