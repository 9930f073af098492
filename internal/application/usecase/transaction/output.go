// Package transaction contains transaction-related use cases.
package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionOutput represents a single transaction in the output.
type TransactionOutput struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Type              entity.TransactionType
	Amount            decimal.Decimal
	CategoryID        uuid.UUID
	Category          *CategoryOutput
	Description       string
	TransactionDate   time.Time
	PaymentMethod     entity.PaymentMethod
	Tags              []string
	Status            entity.TransactionStatus
	DeletedAt         *time.Time
	IsRecurring       bool
	RecurringSettings *entity.RecurringSettings
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CategoryOutput represents category information in transaction output.
type CategoryOutput struct {
	ID    uuid.UUID
	Name  string
	Color string
	Icon  string
	Type  entity.CategoryType
}

func toTransactionOutput(t *entity.Transaction, category *entity.Category) *TransactionOutput {
	out := &TransactionOutput{
		ID:                t.ID,
		UserID:            t.UserID,
		Type:              t.Type,
		Amount:            t.Amount,
		CategoryID:        t.CategoryID,
		Description:       t.Description,
		TransactionDate:   t.TransactionDate,
		PaymentMethod:     t.PaymentMethod,
		Tags:              t.Tags,
		Status:            t.Status,
		DeletedAt:         t.DeletedAt,
		IsRecurring:       t.IsRecurring,
		RecurringSettings: t.RecurringSettings,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}

	if category != nil {
		out.Category = &CategoryOutput{
			ID:    category.ID,
			Name:  category.Name,
			Color: category.Color,
			Icon:  category.Icon,
			Type:  category.Type,
		}
	}
	return out
}
