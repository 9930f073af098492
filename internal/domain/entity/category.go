// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the type of category (expense or income).
// Transactions carry the same closed set of values, see TransactionType.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// IsValid reports whether the category type is one of the known variants.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// Category represents a transaction category in the ledger.
// System defaults have a nil OwnerUserID and IsDefault set.
type Category struct {
	ID               uuid.UUID
	Name             string
	Type             CategoryType
	Icon             string
	Color            string
	IsDefault        bool
	OwnerUserID      *uuid.UUID
	ParentCategoryID *uuid.UUID
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time // Soft-delete support
}

// NewCategory creates a new user-owned Category entity.
// Note: Defaulting logic for color and icon should be applied in the Application layer (UseCase)
// before calling this constructor.
func NewCategory(name, color, icon string, ownerUserID uuid.UUID, categoryType CategoryType, parentID *uuid.UUID) *Category {
	now := time.Now().UTC()
	owner := ownerUserID

	return &Category{
		ID:               uuid.New(),
		Name:             name,
		Type:             categoryType,
		Icon:             icon,
		Color:            color,
		IsDefault:        false,
		OwnerUserID:      &owner,
		ParentCategoryID: parentID,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewDefaultCategory creates a system default category with no owner.
func NewDefaultCategory(name, color, icon string, categoryType CategoryType) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Type:      categoryType,
		Icon:      icon,
		Color:     color,
		IsDefault: true,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VisibleTo reports whether the user may reference this category.
func (c *Category) VisibleTo(userID uuid.UUID) bool {
	if c.DeletedAt != nil {
		return false
	}
	if c.IsDefault {
		return true
	}
	return c.OwnerUserID != nil && *c.OwnerUserID == userID
}

// OwnedBy reports whether the category is a user category owned by userID.
func (c *Category) OwnedBy(userID uuid.UUID) bool {
	return !c.IsDefault && c.OwnerUserID != nil && *c.OwnerUserID == userID
}

// Matches reports whether a transaction of the given type may be filed under this category.
func (c *Category) Matches(transactionType TransactionType) bool {
	return string(c.Type) == string(transactionType)
}
