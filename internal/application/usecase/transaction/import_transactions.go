// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// MaxImportSize is the maximum number of entries in one batch import.
const MaxImportSize = 500

// ImportTransactionsInput represents the input for a batch import.
type ImportTransactionsInput struct {
	UserID  uuid.UUID
	Entries []EntryInput
}

// ImportTransactionsOutput represents the output of a batch import.
type ImportTransactionsOutput struct {
	Transactions []*TransactionOutput
}

// ImportTransactionsUseCase stores a batch of entries atomically.
type ImportTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	factory         *EntryFactory
	observer        adapter.LedgerObserver
}

// NewImportTransactionsUseCase creates a new ImportTransactionsUseCase instance.
func NewImportTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	factory *EntryFactory,
	observer adapter.LedgerObserver,
) *ImportTransactionsUseCase {
	return &ImportTransactionsUseCase{
		transactionRepo: transactionRepo,
		factory:         factory,
		observer:        observer,
	}
}

// Execute validates every entry before writing any of them, stores the batch in
// one database transaction and reports all touched keys in a single notification.
func (uc *ImportTransactionsUseCase) Execute(ctx context.Context, input ImportTransactionsInput) (*ImportTransactionsOutput, error) {
	if len(input.Entries) == 0 || len(input.Entries) > MaxImportSize {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyImport,
			fmt.Sprintf("import must contain between 1 and %d entries", MaxImportSize),
			domainerror.ErrEmptyImport,
		)
	}

	transactions := make([]*entity.Transaction, 0, len(input.Entries))
	outputs := make([]*TransactionOutput, 0, len(input.Entries))
	touches := make([]entity.LedgerTouch, 0, len(input.Entries))

	for i, entry := range input.Entries {
		transaction, category, err := uc.factory.Build(ctx, input.UserID, entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		transactions = append(transactions, transaction)
		outputs = append(outputs, toTransactionOutput(transaction, category))
		touches = append(touches, transaction.AggregateKey())
	}

	if err := uc.transactionRepo.CreateBatch(ctx, transactions); err != nil {
		return nil, fmt.Errorf("failed to import transactions: %w", err)
	}

	uc.observer.LedgerChanged(ctx, touches...)

	return &ImportTransactionsOutput{Transactions: outputs}, nil
}
