// Package error defines domain-specific errors for the ledger engine.
package error

import (
	"context"
	"errors"
)

// ErrorKind classifies every domain error into the caller-facing taxonomy.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindReference        ErrorKind = "reference"
	KindTypeMismatch     ErrorKind = "type_mismatch"
	KindConflict         ErrorKind = "conflict"
	KindRecomputeFailure ErrorKind = "recompute_failure"
	KindStoreUnavailable ErrorKind = "store_unavailable"
	KindUnauthenticated  ErrorKind = "unauthenticated"
	KindInternal         ErrorKind = "internal"
)

// Retryable reports whether the caller may retry the same request unchanged.
func (k ErrorKind) Retryable() bool {
	return k == KindStoreUnavailable || k == KindRecomputeFailure
}

// kinded is implemented by every coded error in this package.
type kinded interface {
	Kind() ErrorKind
}

// KindOf classifies an error chain. Context deadline and cancellation are
// reported as store unavailability since they surface from store round trips.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}

	switch {
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindStoreUnavailable
	case errors.Is(err, ErrRecomputeFailed):
		return KindRecomputeFailure
	}

	return KindInternal
}

// codedError holds the shared shape of the per-domain error types.
type codedError struct {
	Message string
	Err     error
}

func (e *codedError) text() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// CodeOf returns the stable error code carried by the first coded error in
// the chain, or "" when there is none.
func CodeOf(err error) string {
	var (
		txnErr    *TransactionError
		catErr    *CategoryError
		budgetErr *BudgetError
		statsErr  *StatisticsError
		consErr   *ConsistencyError
		authErr   *AuthError
		emailErr  *EmailError
	)

	switch {
	case errors.As(err, &txnErr):
		return string(txnErr.Code)
	case errors.As(err, &catErr):
		return string(catErr.Code)
	case errors.As(err, &budgetErr):
		return string(budgetErr.Code)
	case errors.As(err, &statsErr):
		return string(statsErr.Code)
	case errors.As(err, &consErr):
		return string(consErr.Code)
	case errors.As(err, &authErr):
		return string(authErr.Code)
	case errors.As(err, &emailErr):
		return string(emailErr.Code)
	}
	return ""
}
