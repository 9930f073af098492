// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

// Statistics domain errors.
var (
	// ErrUserStatisticsNotFound is returned when no counters were computed for a user yet.
	ErrUserStatisticsNotFound = errors.New("user statistics not found")

	// ErrInvalidDateRange is returned when a range end is not after its start.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidRankingLimit is returned when the requested top-N is outside the allowed bounds.
	ErrInvalidRankingLimit = errors.New("invalid ranking limit")
)

// StatisticsErrorCode defines error codes for statistics errors.
// Format: STS-XXYYYY where XX is category and YYYY is specific error.
type StatisticsErrorCode string

const (
	ErrCodeInvalidDateRange    StatisticsErrorCode = "STS-010001"
	ErrCodeInvalidRankingLimit StatisticsErrorCode = "STS-010002"
	ErrCodeInvalidMonths       StatisticsErrorCode = "STS-010003"
)

// StatisticsError represents a statistics query error with code and message.
type StatisticsError struct {
	Code StatisticsErrorCode
	codedError
}

// Error implements the error interface.
func (e *StatisticsError) Error() string {
	return e.text()
}

// Unwrap returns the underlying error.
func (e *StatisticsError) Unwrap() error {
	return e.Err
}

// Kind classifies the error.
func (e *StatisticsError) Kind() ErrorKind {
	return KindValidation
}

// NewStatisticsError creates a new StatisticsError with the given code and message.
func NewStatisticsError(code StatisticsErrorCode, message string, err error) *StatisticsError {
	return &StatisticsError{
		Code:       code,
		codedError: codedError{Message: message, Err: err},
	}
}
