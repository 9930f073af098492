// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// GetTransactionInput represents the input for fetching one transaction.
type GetTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// GetTransactionOutput represents the output of fetching one transaction.
type GetTransactionOutput struct {
	Transaction *TransactionOutput
}

// GetTransactionUseCase returns a transaction in any status.
type GetTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
}

// NewGetTransactionUseCase creates a new GetTransactionUseCase instance.
func NewGetTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute loads the transaction and its category.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, input GetTransactionInput) (*GetTransactionOutput, error) {
	transaction, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	categories, err := uc.categoryRepo.FindByIDs(ctx, []uuid.UUID{transaction.CategoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	var category *entity.Category
	if len(categories) > 0 {
		category = categories[0]
	}

	return &GetTransactionOutput{
		Transaction: toTransactionOutput(transaction, category),
	}, nil
}

// findOwnedTransaction loads a transaction and hides rows of other users behind a reference error.
func findOwnedTransaction(ctx context.Context, repo adapter.TransactionRepository, id, userID uuid.UUID) (*entity.Transaction, error) {
	transaction, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if transaction.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"transaction not found",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}
	return transaction, nil
}

func notEditable(transaction *entity.Transaction) error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTransactionNotEditable,
		fmt.Sprintf("transaction is %s", transaction.Status),
		domainerror.ErrTransactionNotEditable,
	)
}

// reloadAfterConflict re-reads a transaction whose conditional write matched no
// active row, so callers can report the status that won.
func reloadAfterConflict(ctx context.Context, repo adapter.TransactionRepository, id uuid.UUID) (*entity.Transaction, error) {
	current, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transaction: %w", err)
	}
	return current, nil
}
