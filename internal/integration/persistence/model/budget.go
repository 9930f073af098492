// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
// Window bounds are stored as UTC day starts.
type BudgetModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_user_category,priority:1"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_user_category,priority:2"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Period     string          `gorm:"type:varchar(10);not null"`
	StartDate  time.Time       `gorm:"not null;index"`
	EndDate    time.Time       `gorm:"not null;index"`
	Status     string          `gorm:"type:varchar(10);not null;default:'active';index"`

	NotificationsEnabled bool            `gorm:"not null"`
	ThresholdPercent     int             `gorm:"not null"`
	NotificationSentAt   *time.Time      `gorm:"column:notification_sent_at"`
	RolloverEnabled      bool            `gorm:"not null;default:false"`
	MaxRollover          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`

	ActualSpent     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	UtilizationRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	RecomputedAt    *time.Time      `gorm:"column:recomputed_at"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:         m.ID,
		UserID:     m.UserID,
		CategoryID: m.CategoryID,
		Amount:     m.Amount,
		Period:     entity.BudgetPeriod(m.Period),
		StartDate:  m.StartDate.UTC(),
		EndDate:    m.EndDate.UTC(),
		Notifications: entity.BudgetNotifications{
			Enabled:          m.NotificationsEnabled,
			ThresholdPercent: m.ThresholdPercent,
			LastSentAt:       m.NotificationSentAt,
		},
		Rollover: entity.BudgetRollover{
			Enabled:     m.RolloverEnabled,
			MaxRollover: m.MaxRollover,
		},
		Status:          entity.BudgetStatus(m.Status),
		ActualSpent:     m.ActualSpent,
		RemainingAmount: m.RemainingAmount,
		UtilizationRate: m.UtilizationRate,
		RecomputedAt:    m.RecomputedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(budget *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:                   budget.ID,
		UserID:               budget.UserID,
		CategoryID:           budget.CategoryID,
		Amount:               budget.Amount,
		Period:               string(budget.Period),
		StartDate:            entity.TruncateDay(budget.StartDate),
		EndDate:              entity.TruncateDay(budget.EndDate),
		Status:               string(budget.Status),
		NotificationsEnabled: budget.Notifications.Enabled,
		ThresholdPercent:     budget.Notifications.ThresholdPercent,
		NotificationSentAt:   budget.Notifications.LastSentAt,
		RolloverEnabled:      budget.Rollover.Enabled,
		MaxRollover:          budget.Rollover.MaxRollover,
		ActualSpent:          budget.ActualSpent,
		RemainingAmount:      budget.RemainingAmount,
		UtilizationRate:      budget.UtilizationRate,
		RecomputedAt:         budget.RecomputedAt,
		CreatedAt:            budget.CreatedAt,
		UpdatedAt:            budget.UpdatedAt,
	}
}
