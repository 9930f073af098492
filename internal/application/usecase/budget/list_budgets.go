// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// ListBudgetsInput represents the input for listing budgets.
type ListBudgetsInput struct {
	UserID uuid.UUID
	Status *entity.BudgetStatus
}

// ListBudgetsOutput represents the output of listing budgets.
type ListBudgetsOutput struct {
	Budgets []*entity.BudgetWithCategory
}

// ListBudgetsUseCase lists a user's budgets.
type ListBudgetsUseCase struct {
	budgetRepo   adapter.BudgetRepository
	categoryRepo adapter.CategoryRepository
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(budgetRepo adapter.BudgetRepository, categoryRepo adapter.CategoryRepository) *ListBudgetsUseCase {
	return &ListBudgetsUseCase{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute performs the listing, newest window first.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, input ListBudgetsInput) (*ListBudgetsOutput, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetStatus,
			"unknown budget status",
			domainerror.ErrInvalidBudgetStatus,
		)
	}

	budgets, err := uc.budgetRepo.FindByUser(ctx, input.UserID, input.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	items, err := withCategories(ctx, uc.categoryRepo, budgets)
	if err != nil {
		return nil, err
	}
	return &ListBudgetsOutput{Budgets: items}, nil
}
