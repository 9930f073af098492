// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
	UserID     uuid.UUID
}

// DeleteCategoryUseCase handles category deletion logic.
type DeleteCategoryUseCase struct {
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(
	categoryRepo adapter.CategoryRepository,
	transactionRepo adapter.TransactionRepository,
) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// CanDelete reports whether no active transaction references the category.
func (uc *DeleteCategoryUseCase) CanDelete(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	active := entity.TransactionStatusActive
	count, err := uc.transactionRepo.CountByCategory(ctx, categoryID, &active)
	if err != nil {
		return false, fmt.Errorf("failed to count category references: %w", err)
	}
	return count == 0, nil
}

// Execute soft-deletes a user category. System defaults cannot be deleted.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) error {
	category, err := findOwnedCategory(ctx, uc.categoryRepo, input.CategoryID, input.UserID)
	if err != nil {
		return err
	}

	ok, err := uc.CanDelete(ctx, category.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryInUse,
			"category is referenced by active transactions",
			domainerror.ErrCategoryInUse,
		)
	}

	if err := uc.categoryRepo.SoftDelete(ctx, category.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
