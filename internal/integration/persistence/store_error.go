// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// storeError tags connectivity failures with domainerror.ErrStoreUnavailable so
// callers can tell a retryable outage from a query bug.
func storeError(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", domainerror.ErrStoreUnavailable, err)
	}
	return err
}
