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

// UpdateCategoryInput represents the input for category update.
// Nil fields are left unchanged.
type UpdateCategoryInput struct {
	CategoryID uuid.UUID
	UserID     uuid.UUID
	Name       *string
	Color      *string
	Icon       *string
	Type       *entity.CategoryType
	IsActive   *bool
}

// UpdateCategoryOutput represents the output of category update.
type UpdateCategoryOutput struct {
	Category *entity.Category
}

// UpdateCategoryUseCase handles category update logic.
type UpdateCategoryUseCase struct {
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
	budgetRepo      adapter.BudgetRepository
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(
	categoryRepo adapter.CategoryRepository,
	transactionRepo adapter.TransactionRepository,
	budgetRepo adapter.BudgetRepository,
) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
	}
}

// Execute performs the category update. The type is frozen once any
// transaction or budget, in any status, references the category.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	category, err := findOwnedCategory(ctx, uc.categoryRepo, input.CategoryID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		if name != category.Name {
			exists, err := uc.categoryRepo.ExistsByNameAndOwner(ctx, name, &input.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to check category name: %w", err)
			}
			if exists {
				return nil, domainerror.NewCategoryError(
					domainerror.ErrCodeCategoryNameExists,
					fmt.Sprintf("category '%s' already exists", name),
					domainerror.ErrCategoryNameExists,
				)
			}
		}
		category.Name = name
	}

	if input.Color != nil {
		if err := validateColor(*input.Color); err != nil {
			return nil, err
		}
		category.Color = *input.Color
	}

	if input.Icon != nil {
		if err := validateIcon(*input.Icon); err != nil {
			return nil, err
		}
		category.Icon = *input.Icon
	}

	if input.Type != nil && *input.Type != category.Type {
		if !input.Type.IsValid() {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryTypeInvalid,
				"category type must be 'expense' or 'income'",
				domainerror.ErrInvalidCategoryType,
			)
		}
		if err := uc.ensureTypeUnlocked(ctx, category.ID); err != nil {
			return nil, err
		}
		category.Type = *input.Type
	}

	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	category.UpdatedAt = time.Now().UTC()
	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &UpdateCategoryOutput{Category: category}, nil
}

func (uc *UpdateCategoryUseCase) ensureTypeUnlocked(ctx context.Context, categoryID uuid.UUID) error {
	transactions, err := uc.transactionRepo.CountByCategory(ctx, categoryID, nil)
	if err != nil {
		return fmt.Errorf("failed to count category transactions: %w", err)
	}
	if transactions > 0 {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryTypeLocked,
			"category type cannot change once transactions reference it",
			domainerror.ErrCategoryTypeLocked,
		)
	}

	budgets, err := uc.budgetRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count category budgets: %w", err)
	}
	if budgets > 0 {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryTypeLocked,
			"category type cannot change while budgets track it",
			domainerror.ErrCategoryTypeLocked,
		)
	}
	return nil
}
