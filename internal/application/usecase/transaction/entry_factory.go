// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

const (
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 200
	// MaxTags is the maximum number of tags on a transaction.
	MaxTags = 10
	// MaxTagLength is the maximum length of a single tag.
	MaxTagLength = 20
)

// EntryInput carries the user-supplied fields of a ledger entry.
type EntryInput struct {
	Type              entity.TransactionType
	Amount            decimal.Decimal
	CategoryID        uuid.UUID
	Description       string
	TransactionDate   time.Time
	PaymentMethod     entity.PaymentMethod
	Tags              []string
	IsRecurring       bool
	RecurringSettings *entity.RecurringSettings
}

// EntryFactory is the only path that turns user input into a ledger entry.
// It resolves the category and enforces that its type matches the entry type.
type EntryFactory struct {
	categoryRepo adapter.CategoryRepository
	clock        adapter.Clock
}

// NewEntryFactory creates a new EntryFactory instance.
func NewEntryFactory(categoryRepo adapter.CategoryRepository, clock adapter.Clock) *EntryFactory {
	return &EntryFactory{
		categoryRepo: categoryRepo,
		clock:        clock,
	}
}

// Now returns the factory clock's current time in UTC.
func (f *EntryFactory) Now() time.Time {
	return f.clock.Now().UTC()
}

// Build validates input and returns a new active transaction with its category.
func (f *EntryFactory) Build(ctx context.Context, userID uuid.UUID, input EntryInput) (*entity.Transaction, *entity.Category, error) {
	if !input.Type.IsValid() {
		return nil, nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if err := validateAmount(input.Amount); err != nil {
		return nil, nil, err
	}

	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, nil, err
	}

	if err := f.validateDate(input.TransactionDate); err != nil {
		return nil, nil, err
	}

	paymentMethod, err := normalizePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, nil, err
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, nil, err
	}

	recurring, err := validateRecurring(input.IsRecurring, input.RecurringSettings, input.TransactionDate)
	if err != nil {
		return nil, nil, err
	}

	category, err := f.ResolveCategory(ctx, userID, input.CategoryID, input.Type)
	if err != nil {
		return nil, nil, err
	}

	transaction := entity.NewTransaction(
		userID,
		input.Type,
		input.Amount,
		category.ID,
		description,
		input.TransactionDate,
		paymentMethod,
		tags,
		recurring,
	)
	return transaction, category, nil
}

// ResolveCategory looks up a category the user may reference and checks it against transactionType.
func (f *EntryFactory) ResolveCategory(ctx context.Context, userID, categoryID uuid.UUID, transactionType entity.TransactionType) (*entity.Category, error) {
	category, err := f.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFoundForTransaction,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if !category.VisibleTo(userID) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFoundForTransaction,
		)
	}

	if !category.Matches(transactionType) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidCategoryType,
			fmt.Sprintf("category type '%s' does not match transaction type '%s'", category.Type, transactionType),
			domainerror.ErrCategoryTypeMismatch,
		)
	}

	return category, nil
}

func (f *EntryFactory) validateDate(date time.Time) error {
	if date.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMissingDate,
			"transaction date is required",
			domainerror.ErrMissingTransactionDate,
		)
	}
	if date.After(f.Now()) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeFutureDate,
			"transaction date cannot be in the future",
			domainerror.ErrFutureTransactionDate,
		)
	}
	return nil
}

// validateAmount requires a strictly positive amount with at most two decimal places.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidAmount,
			"amount must be greater than zero with at most two decimal places",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", domainerror.NewTransactionError(
			domainerror.ErrCodeMissingDescription,
			"description is required",
			domainerror.ErrMissingDescription,
		)
	}
	if len([]rune(description)) > MaxDescriptionLength {
		return "", domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	return description, nil
}

func normalizePaymentMethod(method entity.PaymentMethod) (entity.PaymentMethod, error) {
	if method == "" {
		return entity.PaymentMethodOther, nil
	}
	if !method.IsValid() {
		return "", domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidPaymentMethod,
			fmt.Sprintf("unknown payment method '%s'", method),
			domainerror.ErrInvalidPaymentMethod,
		)
	}
	return method, nil
}

// normalizeTags trims, drops blanks and de-duplicates while keeping first-seen order.
func normalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if len([]rune(tag)) > MaxTagLength {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTags,
				fmt.Sprintf("tag '%s' exceeds %d characters", tag, MaxTagLength),
				domainerror.ErrInvalidTags,
			)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > MaxTags {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTags,
			fmt.Sprintf("at most %d tags are allowed", MaxTags),
			domainerror.ErrInvalidTags,
		)
	}
	return out, nil
}

// validateRecurring requires settings exactly when the entry is recurring.
func validateRecurring(isRecurring bool, settings *entity.RecurringSettings, transactionDate time.Time) (*entity.RecurringSettings, error) {
	invalid := func(msg string) error {
		return domainerror.NewTransactionError(domainerror.ErrCodeInvalidRecurring, msg, domainerror.ErrInvalidRecurringSettings)
	}

	if !isRecurring {
		if settings != nil {
			return nil, invalid("recurring settings given for a non-recurring transaction")
		}
		return nil, nil
	}
	if settings == nil {
		return nil, invalid("recurring settings are required for a recurring transaction")
	}

	switch settings.Frequency {
	case entity.RecurringDaily, entity.RecurringWeekly, entity.RecurringMonthly, entity.RecurringYearly:
	default:
		return nil, invalid(fmt.Sprintf("unknown recurring frequency '%s'", settings.Frequency))
	}
	if settings.Interval < 1 {
		return nil, invalid("recurring interval must be at least 1")
	}
	if settings.EndDate != nil && !settings.EndDate.After(transactionDate) {
		return nil, invalid("recurring end date must be after the transaction date")
	}

	copied := *settings
	return &copied, nil
}
