// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionSortField names the columns a ledger query may sort by.
type TransactionSortField string

const (
	SortByTransactionDate TransactionSortField = "transaction_date"
	SortByAmount          TransactionSortField = "amount"
	SortByCreatedAt       TransactionSortField = "created_at"
)

// IsValid reports whether the sort field is supported.
func (f TransactionSortField) IsValid() bool {
	switch f {
	case SortByTransactionDate, SortByAmount, SortByCreatedAt:
		return true
	}
	return false
}

// TransactionFilter defines filter options for listing transactions.
// EndDate is exclusive.
type TransactionFilter struct {
	UserID        uuid.UUID
	Status        entity.TransactionStatus
	Type          *entity.TransactionType
	CategoryIDs   []uuid.UUID
	PaymentMethod *entity.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
}

// TransactionPagination defines pagination and ordering options.
type TransactionPagination struct {
	Page     int
	Limit    int
	SortBy   TransactionSortField
	SortDesc bool
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*entity.TransactionWithCategory
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// LedgerTotals holds lifetime sums over a user's active transactions.
type LedgerTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int64
}

// CategoryTotal holds the grouped expense total of one category.
type CategoryTotal struct {
	CategoryID uuid.UUID
	Total      decimal.Decimal
	Count      int64
}

// PaymentMethodTotal holds the grouped expense total of one payment method.
type PaymentMethodTotal struct {
	PaymentMethod entity.PaymentMethod
	Total         decimal.Decimal
	Count         int64
}

// LedgerPoint is the minimal projection of an active transaction used for time bucketing.
type LedgerPoint struct {
	Type            entity.TransactionType
	Amount          decimal.Decimal
	TransactionDate time.Time
}

// TransactionRepository defines the interface for transaction persistence operations.
// Every aggregate query reads active rows only.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// CreateBatch stores all transactions in a single database transaction.
	CreateBatch(ctx context.Context, transactions []*entity.Transaction) error

	// FindByID retrieves a transaction by its ID regardless of status.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*TransactionListResult, error)

	// UpdateDetails writes the editable columns of a transaction that is still active.
	// It returns ErrTransactionNotEditable when the row has left the active state.
	UpdateDetails(ctx context.Context, transaction *entity.Transaction) error

	// UpdateStatus moves an active transaction to its new status and deletedAt.
	// It returns ErrTransactionNotEditable when the row has left the active state.
	UpdateStatus(ctx context.Context, transaction *entity.Transaction) error

	// CountByCategory counts transactions referencing a category.
	// A nil status counts rows in any status.
	CountByCategory(ctx context.Context, categoryID uuid.UUID, status *entity.TransactionStatus) (int64, error)

	// SumExpenses sums active expense amounts for a user and category with transaction_date in [start, end).
	SumExpenses(ctx context.Context, userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error)

	// GetLifetimeTotals sums the user's active income and expense and counts the rows.
	GetLifetimeTotals(ctx context.Context, userID uuid.UUID) (*LedgerTotals, error)

	// SumExpensesByCategory groups active expenses in [start, end) by category.
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CategoryTotal, error)

	// SumExpensesByPaymentMethod groups active expenses in [start, end) by payment method.
	SumExpensesByPaymentMethod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]PaymentMethodTotal, error)

	// FindLedgerPoints projects active transactions in [start, end), optionally of one type,
	// ordered by transaction date.
	FindLedgerPoints(ctx context.Context, userID uuid.UUID, transactionType *entity.TransactionType, start, end time.Time) ([]LedgerPoint, error)

	// FindUserIDs lists every user that owns at least one transaction.
	FindUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
