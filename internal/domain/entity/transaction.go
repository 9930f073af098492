// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether the transaction type is one of the known variants.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// TransactionStatus represents the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusActive   TransactionStatus = "active"
	TransactionStatusDeleted  TransactionStatus = "deleted"
	TransactionStatusArchived TransactionStatus = "archived"
)

// PaymentMethod represents how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodDebitCard     PaymentMethod = "debit_card"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
	PaymentMethodOther         PaymentMethod = "other"
)

// IsValid reports whether the payment method is known.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBankTransfer, PaymentMethodDigitalWallet, PaymentMethodOther:
		return true
	}
	return false
}

// RecurringFrequency represents how often a recurring transaction repeats.
type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "daily"
	RecurringWeekly  RecurringFrequency = "weekly"
	RecurringMonthly RecurringFrequency = "monthly"
	RecurringYearly  RecurringFrequency = "yearly"
)

// RecurringSettings describes the repetition of a recurring transaction.
type RecurringSettings struct {
	Frequency RecurringFrequency `json:"frequency"`
	Interval  int                `json:"interval"`
	EndDate   *time.Time         `json:"end_date,omitempty"`
}

// Transaction represents a ledger entry. Amount is always positive;
// direction is carried by Type.
type Transaction struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Type              TransactionType
	Amount            decimal.Decimal
	CategoryID        uuid.UUID
	Description       string
	TransactionDate   time.Time
	PaymentMethod     PaymentMethod
	Tags              []string
	Status            TransactionStatus
	DeletedAt         *time.Time
	IsRecurring       bool
	RecurringSettings *RecurringSettings
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewTransaction creates a new active Transaction entity.
// Callers are expected to have validated the entry against its category first.
func NewTransaction(
	userID uuid.UUID,
	transactionType TransactionType,
	amount decimal.Decimal,
	categoryID uuid.UUID,
	description string,
	transactionDate time.Time,
	paymentMethod PaymentMethod,
	tags []string,
	recurring *RecurringSettings,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:                uuid.New(),
		UserID:            userID,
		Type:              transactionType,
		Amount:            amount,
		CategoryID:        categoryID,
		Description:       description,
		TransactionDate:   transactionDate.UTC(),
		PaymentMethod:     paymentMethod,
		Tags:              tags,
		Status:            TransactionStatusActive,
		IsRecurring:       recurring != nil,
		RecurringSettings: recurring,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsActive reports whether the transaction contributes to aggregates.
func (t *Transaction) IsActive() bool {
	return t.Status == TransactionStatusActive
}

// AggregateKey returns the (user, category, date) tuple this entry contributes to.
func (t *Transaction) AggregateKey() LedgerTouch {
	return LedgerTouch{
		UserID:          t.UserID,
		CategoryID:      t.CategoryID,
		TransactionDate: t.TransactionDate,
	}
}

// SoftDelete marks the entry as deleted without removing it.
func (t *Transaction) SoftDelete(now time.Time) {
	t.Status = TransactionStatusDeleted
	t.DeletedAt = &now
	t.UpdatedAt = now
}

// Archive moves the entry to the terminal read-only state.
func (t *Transaction) Archive(now time.Time) {
	t.Status = TransactionStatusArchived
	t.UpdatedAt = now
}

// LedgerTouch identifies the derived data a ledger mutation may have affected.
type LedgerTouch struct {
	UserID          uuid.UUID
	CategoryID      uuid.UUID
	TransactionDate time.Time
}

// TransactionWithCategory represents a transaction with its associated category.
type TransactionWithCategory struct {
	Transaction *Transaction
	Category    *Category
}
