// Package error defines domain-specific errors for the ledger engine.
package error

import "errors"

var (
	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	// The operation may be retried unchanged.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrRecomputeFailed is returned when derived data could not be refreshed.
	// Previously persisted derived values are left untouched.
	ErrRecomputeFailed = errors.New("recompute failed")

	// ErrLockNotAcquired is returned when a recompute lock is held elsewhere past the wait budget.
	ErrLockNotAcquired = errors.New("recompute lock not acquired")
)

// ConsistencyErrorCode defines error codes for derived data maintenance.
// Format: CNS-XXYYYY where XX is category and YYYY is specific error.
type ConsistencyErrorCode string

const (
	ErrCodeStoreUnavailable ConsistencyErrorCode = "CNS-010001"
	ErrCodeRecomputeFailed  ConsistencyErrorCode = "CNS-020001"
	ErrCodeRecomputeTimeout ConsistencyErrorCode = "CNS-020002"
	ErrCodeLockNotAcquired  ConsistencyErrorCode = "CNS-020003"
)

// ConsistencyError reports a failure to keep derived data in step with the ledger.
// Target names the recompute key, e.g. "budget:<id>" or "user-stats:<id>".
type ConsistencyError struct {
	Code   ConsistencyErrorCode
	Target string
	codedError
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	if e.Target != "" {
		return e.Target + ": " + e.text()
	}
	return e.text()
}

// Unwrap returns the underlying error.
func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// Kind classifies the error.
func (e *ConsistencyError) Kind() ErrorKind {
	if e.Code == ErrCodeStoreUnavailable {
		return KindStoreUnavailable
	}
	return KindRecomputeFailure
}

// NewConsistencyError creates a new ConsistencyError for the given recompute target.
func NewConsistencyError(code ConsistencyErrorCode, target, message string, err error) *ConsistencyError {
	return &ConsistencyError{
		Code:       code,
		Target:     target,
		codedError: codedError{Message: message, Err: err},
	}
}
