// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// ArchiveTransactionInput represents the input for archiving a transaction.
type ArchiveTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// ArchiveTransactionUseCase moves an active entry into the terminal archived state.
// Archived entries stop contributing to every aggregate.
type ArchiveTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	clock           adapter.Clock
	observer        adapter.LedgerObserver
}

// NewArchiveTransactionUseCase creates a new ArchiveTransactionUseCase instance.
func NewArchiveTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	clock adapter.Clock,
	observer adapter.LedgerObserver,
) *ArchiveTransactionUseCase {
	return &ArchiveTransactionUseCase{
		transactionRepo: transactionRepo,
		clock:           clock,
		observer:        observer,
	}
}

// Execute archives the transaction.
func (uc *ArchiveTransactionUseCase) Execute(ctx context.Context, input ArchiveTransactionInput) error {
	transaction, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return err
	}
	if !transaction.IsActive() {
		return notEditable(transaction)
	}

	transaction.Archive(uc.clock.Now().UTC())
	if err := uc.transactionRepo.UpdateStatus(ctx, transaction); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotEditable) {
			current, reloadErr := reloadAfterConflict(ctx, uc.transactionRepo, transaction.ID)
			if reloadErr != nil {
				return reloadErr
			}
			return notEditable(current)
		}
		return fmt.Errorf("failed to archive transaction: %w", err)
	}

	uc.observer.LedgerChanged(ctx, transaction.AggregateKey())
	return nil
}
