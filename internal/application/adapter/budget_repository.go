// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
// Derived fields are written only through UpdateDerived.
type BudgetRepository interface {
	// Create creates a new budget in the database.
	Create(ctx context.Context, budget *entity.Budget) error

	// FindByID retrieves a budget by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindByUser retrieves a user's budgets, optionally narrowed to one status.
	FindByUser(ctx context.Context, userID uuid.UUID, status *entity.BudgetStatus) ([]*entity.Budget, error)

	// FindCovering retrieves every budget of the user and category whose window contains date.
	FindCovering(ctx context.Context, userID, categoryID uuid.UUID, date time.Time) ([]*entity.Budget, error)

	// FindActiveAt retrieves the user's active budgets whose window contains asOf.
	FindActiveAt(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*entity.Budget, error)

	// Update saves the user-editable columns of a budget.
	Update(ctx context.Context, budget *entity.Budget) error

	// UpdateDerived saves the derived spending columns and the notification timestamp.
	UpdateDerived(ctx context.Context, budget *entity.Budget) error

	// CountByCategory counts budgets in any status that track a category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// FindUserIDs lists every user that owns at least one budget.
	FindUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
