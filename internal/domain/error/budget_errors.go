// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget is not found.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrNotAuthorizedToModifyBudget is returned when the budget belongs to another user.
	ErrNotAuthorizedToModifyBudget = errors.New("not authorized to modify budget")

	// ErrInvalidBudgetAmount is returned when the allowance is negative.
	ErrInvalidBudgetAmount = errors.New("budget amount must not be negative")

	// ErrInvalidBudgetPeriod is returned when the period is unknown.
	ErrInvalidBudgetPeriod = errors.New("invalid budget period")

	// ErrInvalidBudgetWindow is returned when the end date is not after the start date.
	ErrInvalidBudgetWindow = errors.New("budget end date must be after start date")

	// ErrInvalidThreshold is returned when the notification threshold is outside 0-100.
	ErrInvalidThreshold = errors.New("notification threshold must be between 0 and 100")

	// ErrBudgetCategoryNotExpense is returned when a budget targets an income category.
	ErrBudgetCategoryNotExpense = errors.New("budgets can only track expense categories")

	// ErrBudgetCategoryNotFound is returned when the budget category does not resolve.
	ErrBudgetCategoryNotFound = errors.New("budget category not found")

	// ErrBudgetNotRenewable is returned when a renewal is requested too early or on a closed budget.
	ErrBudgetNotRenewable = errors.New("budget is not due for renewal")

	// ErrInvalidBudgetStatus is returned when a status transition is not allowed.
	ErrInvalidBudgetStatus = errors.New("invalid budget status")

	// ErrBudgetClosed is returned when modifying a completed or cancelled budget.
	ErrBudgetClosed = errors.New("budget is closed")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BGT-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidBudgetAmount   BudgetErrorCode = "BGT-010001"
	ErrCodeInvalidBudgetPeriod   BudgetErrorCode = "BGT-010002"
	ErrCodeInvalidBudgetWindow   BudgetErrorCode = "BGT-010003"
	ErrCodeInvalidThreshold      BudgetErrorCode = "BGT-010004"
	ErrCodeMissingBudgetFields   BudgetErrorCode = "BGT-010005"
	ErrCodeInvalidBudgetStatus   BudgetErrorCode = "BGT-010006"
	ErrCodeBudgetNotFound        BudgetErrorCode = "BGT-010007"
	ErrCodeNotAuthorizedBudget   BudgetErrorCode = "BGT-010008"
	ErrCodeBudgetCategoryMissing BudgetErrorCode = "BGT-010009"
	ErrCodeBudgetCategoryType    BudgetErrorCode = "BGT-010010"

	// State errors (02XXXX)
	ErrCodeBudgetNotRenewable BudgetErrorCode = "BGT-020001"
	ErrCodeBudgetClosed       BudgetErrorCode = "BGT-020002"
)

var budgetErrorKinds = map[BudgetErrorCode]ErrorKind{
	ErrCodeBudgetNotFound:        KindReference,
	ErrCodeNotAuthorizedBudget:   KindReference,
	ErrCodeBudgetCategoryMissing: KindReference,
	ErrCodeBudgetCategoryType:    KindTypeMismatch,
	ErrCodeBudgetNotRenewable:    KindConflict,
	ErrCodeBudgetClosed:          KindConflict,
}

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code BudgetErrorCode
	codedError
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	return e.text()
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// Kind classifies the error; codes without an explicit entry are validation errors.
func (e *BudgetError) Kind() ErrorKind {
	if k, ok := budgetErrorKinds[e.Code]; ok {
		return k
	}
	return KindValidation
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:       code,
		codedError: codedError{Message: message, Err: err},
	}
}
