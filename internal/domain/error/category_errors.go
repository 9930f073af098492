// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameExists is returned when attempting to create a category with an existing name.
	ErrCategoryNameExists = errors.New("category name already exists")

	// ErrCategoryNameTooLong is returned when the category name exceeds the maximum length.
	ErrCategoryNameTooLong = errors.New("category name too long")

	// ErrCategoryNameRequired is returned when the category name is blank.
	ErrCategoryNameRequired = errors.New("category name is required")

	// ErrInvalidColorFormat is returned when the category color format is invalid.
	ErrInvalidColorFormat = errors.New("invalid color format")

	// ErrNotAuthorizedToModifyCategory is returned when user is not authorized to modify a category.
	ErrNotAuthorizedToModifyCategory = errors.New("not authorized to modify category")

	// ErrInvalidCategoryType is returned when the category type is invalid.
	ErrInvalidCategoryType = errors.New("invalid category type")

	// ErrInvalidParentCategory is returned when the parent does not resolve or has another type.
	ErrInvalidParentCategory = errors.New("invalid parent category")

	// ErrCategoryInUse is returned when deleting a category that active transactions reference.
	ErrCategoryInUse = errors.New("category is referenced by active transactions")

	// ErrCategoryTypeLocked is returned when changing the type of a referenced category.
	ErrCategoryTypeLocked = errors.New("category type cannot change once referenced")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameTooLong   CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidColorFormat    CategoryErrorCode = "CAT-010002"
	ErrCodeCategoryNameRequired  CategoryErrorCode = "CAT-010003"
	ErrCodeCategoryNotFoundCat   CategoryErrorCode = "CAT-010004"
	ErrCodeCategoryNameExists    CategoryErrorCode = "CAT-010005"
	ErrCodeNotAuthorizedCategory CategoryErrorCode = "CAT-010006"
	ErrCodeCategoryTypeInvalid   CategoryErrorCode = "CAT-010007"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010008"
	ErrCodeInvalidParentCategory CategoryErrorCode = "CAT-010009"

	// Conflict errors (02XXXX)
	ErrCodeCategoryInUse      CategoryErrorCode = "CAT-020001"
	ErrCodeCategoryTypeLocked CategoryErrorCode = "CAT-020002"
)

var categoryErrorKinds = map[CategoryErrorCode]ErrorKind{
	ErrCodeCategoryNotFoundCat:   KindReference,
	ErrCodeNotAuthorizedCategory: KindReference,
	ErrCodeCategoryNameExists:    KindConflict,
	ErrCodeCategoryInUse:         KindConflict,
	ErrCodeCategoryTypeLocked:    KindConflict,
}

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code CategoryErrorCode
	codedError
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	return e.text()
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// Kind classifies the error; codes without an explicit entry are validation errors.
func (e *CategoryError) Kind() ErrorKind {
	if k, ok := categoryErrorKinds[e.Code]; ok {
		return k
	}
	return KindValidation
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:       code,
		codedError: codedError{Message: message, Err: err},
	}
}
