// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	UserID           uuid.UUID
	Name             string
	Color            string // Optional, defaults to DefaultCategoryColor
	Icon             string // Optional, defaults to DefaultCategoryIcon
	Type             entity.CategoryType
	ParentCategoryID *uuid.UUID
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	color := input.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	icon := input.Icon
	if icon == "" {
		icon = entity.DefaultCategoryIcon
	}
	if err := validateIcon(icon); err != nil {
		return nil, err
	}

	if !input.Type.IsValid() {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryTypeInvalid,
			"category type must be 'expense' or 'income'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	if input.ParentCategoryID != nil {
		if err := uc.validateParent(ctx, input.UserID, *input.ParentCategoryID, input.Type); err != nil {
			return nil, err
		}
	}

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

	category := entity.NewCategory(name, color, icon, input.UserID, input.Type, input.ParentCategoryID)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CreateCategoryOutput{Category: category}, nil
}

// validateParent requires a visible parent of the same type.
func (uc *CreateCategoryUseCase) validateParent(ctx context.Context, userID, parentID uuid.UUID, categoryType entity.CategoryType) error {
	invalid := domainerror.NewCategoryError(
		domainerror.ErrCodeInvalidParentCategory,
		"parent category must exist and have the same type",
		domainerror.ErrInvalidParentCategory,
	)

	parent, err := uc.categoryRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return invalid
		}
		return fmt.Errorf("failed to find parent category: %w", err)
	}
	if !parent.VisibleTo(userID) || parent.Type != categoryType {
		return invalid
	}
	return nil
}
