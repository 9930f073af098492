// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// UserStatisticsModel represents the user_statistics table in the database.
type UserStatisticsModel struct {
	UserID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalIncome      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TotalExpense     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TransactionCount int64           `gorm:"not null;default:0"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the UserStatisticsModel.
func (UserStatisticsModel) TableName() string {
	return "user_statistics"
}

// ToEntity converts a UserStatisticsModel to a domain UserStatistics entity.
func (m *UserStatisticsModel) ToEntity() *entity.UserStatistics {
	return &entity.UserStatistics{
		UserID:           m.UserID,
		TotalIncome:      m.TotalIncome,
		TotalExpense:     m.TotalExpense,
		TransactionCount: m.TransactionCount,
		UpdatedAt:        m.UpdatedAt,
	}
}

// UserStatisticsFromEntity creates a UserStatisticsModel from a domain UserStatistics entity.
func UserStatisticsFromEntity(stats *entity.UserStatistics) *UserStatisticsModel {
	return &UserStatisticsModel{
		UserID:           stats.UserID,
		TotalIncome:      stats.TotalIncome,
		TotalExpense:     stats.TotalExpense,
		TransactionCount: stats.TransactionCount,
		UpdatedAt:        stats.UpdatedAt,
	}
}
