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

// DeleteTransactionInput represents the input for soft-deleting a transaction.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// DeleteTransactionUseCase soft-deletes ledger entries. Rows are never removed.
type DeleteTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	clock           adapter.Clock
	observer        adapter.LedgerObserver
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	clock adapter.Clock,
	observer adapter.LedgerObserver,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		transactionRepo: transactionRepo,
		clock:           clock,
		observer:        observer,
	}
}

// Execute marks the transaction deleted. Deleting an already deleted entry is a no-op;
// archived entries are read-only.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) error {
	transaction, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return err
	}

	switch transaction.Status {
	case entity.TransactionStatusDeleted:
		return nil
	case entity.TransactionStatusArchived:
		return notEditable(transaction)
	}

	transaction.SoftDelete(uc.clock.Now().UTC())
	if err := uc.transactionRepo.UpdateStatus(ctx, transaction); err != nil {
		if !errors.Is(err, domainerror.ErrTransactionNotEditable) {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		current, reloadErr := reloadAfterConflict(ctx, uc.transactionRepo, transaction.ID)
		if reloadErr != nil {
			return reloadErr
		}
		if current.Status == entity.TransactionStatusDeleted {
			return nil
		}
		return notEditable(current)
	}

	uc.observer.LedgerChanged(ctx, transaction.AggregateKey())
	return nil
}
