// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// UpdateTransactionInput represents the input for editing a transaction.
// Nil fields are left unchanged. Type is not editable.
type UpdateTransactionInput struct {
	TransactionID   uuid.UUID
	UserID          uuid.UUID
	Amount          *decimal.Decimal
	CategoryID      *uuid.UUID
	Description     *string
	TransactionDate *time.Time
	PaymentMethod   *entity.PaymentMethod
	Tags            *[]string
}

// UpdateTransactionOutput represents the output of editing a transaction.
type UpdateTransactionOutput struct {
	Transaction *TransactionOutput
}

// UpdateTransactionUseCase edits the mutable fields of an active transaction.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	factory         *EntryFactory
	observer        adapter.LedgerObserver
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	factory *EntryFactory,
	observer adapter.LedgerObserver,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		factory:         factory,
		observer:        observer,
	}
}

// Execute applies the patch. Only the editable columns are written, and only while
// the row is still active. Both the previous and the new aggregate keys are
// reported so a transaction moving between budget windows updates both sides.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	transaction, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if !transaction.IsActive() {
		return nil, notEditable(transaction)
	}

	before := transaction.AggregateKey()
	beforeAmount := transaction.Amount

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *input.Amount
	}

	if input.Description != nil {
		description, err := normalizeDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		transaction.Description = description
	}

	if input.TransactionDate != nil {
		if err := uc.factory.validateDate(*input.TransactionDate); err != nil {
			return nil, err
		}
		transaction.TransactionDate = input.TransactionDate.UTC()
	}

	if input.PaymentMethod != nil {
		method, err := normalizePaymentMethod(*input.PaymentMethod)
		if err != nil {
			return nil, err
		}
		transaction.PaymentMethod = method
	}

	if input.Tags != nil {
		tags, err := normalizeTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		transaction.Tags = tags
	}

	// Re-check the type match against the effective category on every edit.
	if input.CategoryID != nil {
		transaction.CategoryID = *input.CategoryID
	}
	category, err := uc.factory.ResolveCategory(ctx, input.UserID, transaction.CategoryID, transaction.Type)
	if err != nil {
		return nil, err
	}

	transaction.UpdatedAt = uc.factory.Now()
	if err := uc.transactionRepo.UpdateDetails(ctx, transaction); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotEditable) {
			current, reloadErr := reloadAfterConflict(ctx, uc.transactionRepo, transaction.ID)
			if reloadErr != nil {
				return nil, reloadErr
			}
			return nil, notEditable(current)
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	after := transaction.AggregateKey()
	if before != after || !beforeAmount.Equal(transaction.Amount) {
		uc.observer.LedgerChanged(ctx, before, after)
	}

	return &UpdateTransactionOutput{
		Transaction: toTransactionOutput(transaction, category),
	}, nil
}
