// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotAuthorizedToModifyTransaction is returned when the transaction belongs to another user.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrFutureTransactionDate is returned when the transaction date is after now.
	ErrFutureTransactionDate = errors.New("transaction date is in the future")

	// ErrMissingTransactionDate is returned when no transaction date was supplied.
	ErrMissingTransactionDate = errors.New("transaction date is required")

	// ErrInvalidTransactionAmount is returned when the amount is not strictly positive.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrCategoryNotFoundForTransaction is returned when the specified category is not found.
	ErrCategoryNotFoundForTransaction = errors.New("category not found")

	// ErrCategoryTypeMismatch is returned when the category type differs from the transaction type.
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")

	// ErrMissingDescription is returned when the description is blank.
	ErrMissingDescription = errors.New("description is required")

	// ErrDescriptionTooLong is returned when the transaction description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidTags is returned when tags exceed count or length limits.
	ErrInvalidTags = errors.New("invalid tags")

	// ErrInvalidRecurringSettings is returned when recurring settings are missing or malformed.
	ErrInvalidRecurringSettings = errors.New("invalid recurring settings")

	// ErrTransactionNotEditable is returned when editing a deleted or archived transaction.
	ErrTransactionNotEditable = errors.New("transaction is not editable")

	// ErrEmptyImport is returned when a batch import has no entries.
	ErrEmptyImport = errors.New("import contains no entries")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeFutureDate               TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidAmount            TransactionErrorCode = "TXN-010003"
	ErrCodeTransactionNotFound      TransactionErrorCode = "TXN-010004"
	ErrCodeNotAuthorizedTransaction TransactionErrorCode = "TXN-010005"
	ErrCodeCategoryNotFound         TransactionErrorCode = "TXN-010006"
	ErrCodeMissingDescription       TransactionErrorCode = "TXN-010007"
	ErrCodeDescriptionTooLong       TransactionErrorCode = "TXN-010008"
	ErrCodeMissingDate              TransactionErrorCode = "TXN-010009"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010010"
	ErrCodeInvalidPaymentMethod     TransactionErrorCode = "TXN-010011"
	ErrCodeInvalidTags              TransactionErrorCode = "TXN-010012"
	ErrCodeInvalidCategoryType      TransactionErrorCode = "TXN-010013"
	ErrCodeInvalidRecurring         TransactionErrorCode = "TXN-010014"
	ErrCodeEmptyImport              TransactionErrorCode = "TXN-010015"

	// State errors (02XXXX)
	ErrCodeTransactionNotEditable TransactionErrorCode = "TXN-020001"
)

var transactionErrorKinds = map[TransactionErrorCode]ErrorKind{
	ErrCodeTransactionNotFound:      KindReference,
	ErrCodeNotAuthorizedTransaction: KindReference,
	ErrCodeCategoryNotFound:         KindReference,
	ErrCodeInvalidCategoryType:      KindTypeMismatch,
	ErrCodeTransactionNotEditable:   KindConflict,
}

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code TransactionErrorCode
	codedError
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	return e.text()
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Kind classifies the error; codes without an explicit entry are validation errors.
func (e *TransactionError) Kind() ErrorKind {
	if k, ok := transactionErrorKinds[e.Code]; ok {
		return k
	}
	return KindValidation
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:       code,
		codedError: codedError{Message: message, Err: err},
	}
}
