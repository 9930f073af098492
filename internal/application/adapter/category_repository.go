// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID, including soft-deleted ones.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindVisible retrieves the system defaults plus the user's own active categories,
	// optionally narrowed to a single type.
	FindVisible(ctx context.Context, userID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error)

	// FindByIDs retrieves categories by ID; unknown IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error)

	// ExistsByNameAndOwner checks if a live category with the given name exists for the owner.
	// A nil owner checks the system defaults.
	ExistsByNameAndOwner(ctx context.Context, name string, ownerUserID *uuid.UUID) (bool, error)

	// Update updates an existing category in the database.
	Update(ctx context.Context, category *entity.Category) error

	// SoftDelete marks a category as deleted.
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}
