// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"time"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

type systemClock struct{}

// NewSystemClock returns a clock backed by the wall clock in UTC.
func NewSystemClock() adapter.Clock {
	return systemClock{}
}

// Now returns the current UTC time.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
