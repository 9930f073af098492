// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

const (
	// DefaultPageSize is used when the caller does not ask for a page size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size.
	MaxPageSize = 100
)

// ListTransactionsInput represents the input for listing transactions.
// EndDate is exclusive.
type ListTransactionsInput struct {
	UserID        uuid.UUID
	Status        entity.TransactionStatus
	Type          *entity.TransactionType
	CategoryIDs   []uuid.UUID
	PaymentMethod *entity.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        adapter.TransactionSortField
	SortAscending bool
	Page          int
	Limit         int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Pagination   PaginationOutput
}

// ListTransactionsUseCase handles read-only ledger queries.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute runs the query. Results default to active rows ordered by transaction date, newest first.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	sortBy := input.SortBy
	if !sortBy.IsValid() {
		sortBy = adapter.SortByTransactionDate
	}

	status := input.Status
	if status == "" {
		status = entity.TransactionStatusActive
	}

	filter := adapter.TransactionFilter{
		UserID:        input.UserID,
		Status:        status,
		Type:          input.Type,
		CategoryIDs:   input.CategoryIDs,
		PaymentMethod: input.PaymentMethod,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	}
	pagination := adapter.TransactionPagination{
		Page:     page,
		Limit:    limit,
		SortBy:   sortBy,
		SortDesc: !input.SortAscending,
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	transactions := make([]*TransactionOutput, len(result.Transactions))
	for i, twc := range result.Transactions {
		transactions[i] = toTransactionOutput(twc.Transaction, twc.Category)
	}

	return &ListTransactionsOutput{
		Transactions: transactions,
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}, nil
}
