// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the read-only view of an account owned by the external auth layer.
// The ledger only needs contact details and alert preferences.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	EmailNotifications bool
	BudgetAlerts       bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// WantsBudgetAlerts reports whether threshold emails may be sent to the user.
func (u *User) WantsBudgetAlerts() bool {
	return u.EmailNotifications && u.BudgetAlerts && u.Email != ""
}
