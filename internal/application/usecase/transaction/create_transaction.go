// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID uuid.UUID
	Entry  EntryInput
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *TransactionOutput
}

// CreateTransactionUseCase appends an entry to the ledger.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	factory         *EntryFactory
	observer        adapter.LedgerObserver
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	factory *EntryFactory,
	observer adapter.LedgerObserver,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		factory:         factory,
		observer:        observer,
	}
}

// Execute validates and stores the entry, then hands the touched aggregates to the observer.
// Nothing is written when validation fails.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	transaction, category, err := uc.factory.Build(ctx, input.UserID, input.Entry)
	if err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	uc.observer.LedgerChanged(ctx, transaction.AggregateKey())

	return &CreateTransactionOutput{
		Transaction: toTransactionOutput(transaction, category),
	}, nil
}
