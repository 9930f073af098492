// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
// Deletion is a status transition, so rows are never hidden by a gorm soft-delete scope.
type TransactionModel struct {
	ID                uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID                 `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1"`
	Type              string                    `gorm:"type:varchar(10);not null;index"`
	Amount            decimal.Decimal           `gorm:"type:decimal(15,2);not null"`
	CategoryID        uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Description       string                    `gorm:"type:varchar(200);not null"`
	TransactionDate   time.Time                 `gorm:"not null;index:idx_transactions_user_date,priority:2"`
	PaymentMethod     string                    `gorm:"type:varchar(20);not null;default:'other'"`
	Tags              pq.StringArray            `gorm:"type:text"`
	Status            string                    `gorm:"type:varchar(10);not null;default:'active';index"`
	DeletedAt         *time.Time                `gorm:"index"`
	IsRecurring       bool                      `gorm:"not null;default:false"`
	RecurringSettings *entity.RecurringSettings `gorm:"serializer:json;type:text"`
	CreatedAt         time.Time                 `gorm:"not null"`
	UpdatedAt         time.Time                 `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	tags := []string(m.Tags)
	if tags == nil {
		tags = []string{}
	}

	return &entity.Transaction{
		ID:                m.ID,
		UserID:            m.UserID,
		Type:              entity.TransactionType(m.Type),
		Amount:            m.Amount,
		CategoryID:        m.CategoryID,
		Description:       m.Description,
		TransactionDate:   m.TransactionDate.UTC(),
		PaymentMethod:     entity.PaymentMethod(m.PaymentMethod),
		Tags:              tags,
		Status:            entity.TransactionStatus(m.Status),
		DeletedAt:         m.DeletedAt,
		IsRecurring:       m.IsRecurring,
		RecurringSettings: m.RecurringSettings,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ToEntityWithCategory converts a TransactionModel with its Category to a TransactionWithCategory entity.
func (m *TransactionModel) ToEntityWithCategory() *entity.TransactionWithCategory {
	result := &entity.TransactionWithCategory{
		Transaction: m.ToEntity(),
	}

	if m.Category != nil {
		result.Category = m.Category.ToEntity()
	}

	return result
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:                transaction.ID,
		UserID:            transaction.UserID,
		Type:              string(transaction.Type),
		Amount:            transaction.Amount,
		CategoryID:        transaction.CategoryID,
		Description:       transaction.Description,
		TransactionDate:   transaction.TransactionDate.UTC(),
		PaymentMethod:     string(transaction.PaymentMethod),
		Tags:              pq.StringArray(transaction.Tags),
		Status:            string(transaction.Status),
		DeletedAt:         transaction.DeletedAt,
		IsRecurring:       transaction.IsRecurring,
		RecurringSettings: transaction.RecurringSettings,
		CreatedAt:         transaction.CreatedAt,
		UpdatedAt:         transaction.UpdatedAt,
	}
}
