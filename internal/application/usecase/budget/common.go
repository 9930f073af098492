// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// NotificationSettingsInput carries optional notification settings.
type NotificationSettingsInput struct {
	Enabled          *bool
	ThresholdPercent *int
}

// RolloverSettingsInput carries optional rollover settings.
type RolloverSettingsInput struct {
	Enabled     *bool
	MaxRollover *decimal.Decimal
}

func findOwnedBudget(ctx context.Context, repo adapter.BudgetRepository, id, userID uuid.UUID) (*entity.Budget, error) {
	budget, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetNotFound,
				"budget not found",
				domainerror.ErrBudgetNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}

	if budget.UserID != userID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeNotAuthorizedBudget,
			"budget not found",
			domainerror.ErrNotAuthorizedToModifyBudget,
		)
	}
	return budget, nil
}

// resolveExpenseCategory requires a category visible to the user with type expense.
func resolveExpenseCategory(ctx context.Context, repo adapter.CategoryRepository, userID, categoryID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if err != nil || !category.VisibleTo(userID) {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetCategoryMissing,
			"category not found",
			domainerror.ErrBudgetCategoryNotFound,
		)
	}

	if category.Type != entity.CategoryTypeExpense {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetCategoryType,
			"budgets can only track expense categories",
			domainerror.ErrBudgetCategoryNotExpense,
		)
	}
	return category, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetAmount,
			"budget amount must not be negative",
			domainerror.ErrInvalidBudgetAmount,
		)
	}
	return nil
}

func validateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidThreshold,
			"notification threshold must be between 0 and 100",
			domainerror.ErrInvalidThreshold,
		)
	}
	return nil
}

func validateWindow(budget *entity.Budget) error {
	if !budget.EndDate.After(budget.StartDate) {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetWindow,
			"end date must be after start date",
			domainerror.ErrInvalidBudgetWindow,
		)
	}
	return nil
}

func applyNotifications(budget *entity.Budget, input *NotificationSettingsInput) error {
	if input == nil {
		return nil
	}
	if input.Enabled != nil {
		budget.Notifications.Enabled = *input.Enabled
	}
	if input.ThresholdPercent != nil {
		if err := validateThreshold(*input.ThresholdPercent); err != nil {
			return err
		}
		budget.Notifications.ThresholdPercent = *input.ThresholdPercent
	}
	return nil
}

func applyRollover(budget *entity.Budget, input *RolloverSettingsInput) error {
	if input == nil {
		return nil
	}
	if input.Enabled != nil {
		budget.Rollover.Enabled = *input.Enabled
	}
	if input.MaxRollover != nil {
		if input.MaxRollover.IsNegative() {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidBudgetAmount,
				"max rollover must not be negative",
				domainerror.ErrInvalidBudgetAmount,
			)
		}
		budget.Rollover.MaxRollover = *input.MaxRollover
	}
	return nil
}

// refresh recomputes the budget and falls back to the stored copy when the recompute fails.
// The write that preceded it already succeeded; stale derived fields are retried later.
func refresh(ctx context.Context, refresher adapter.BudgetRefresher, budget *entity.Budget) *entity.Budget {
	refreshed, err := refresher.RefreshBudget(ctx, budget.ID)
	if err != nil {
		slog.Warn("Budget refresh failed", "budget_id", budget.ID, "error", err)
		return budget
	}
	return refreshed
}

func withCategories(ctx context.Context, repo adapter.CategoryRepository, budgets []*entity.Budget) ([]*entity.BudgetWithCategory, error) {
	ids := make([]uuid.UUID, 0, len(budgets))
	seen := make(map[uuid.UUID]struct{}, len(budgets))
	for _, b := range budgets {
		if _, ok := seen[b.CategoryID]; ok {
			continue
		}
		seen[b.CategoryID] = struct{}{}
		ids = append(ids, b.CategoryID)
	}

	categories, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[uuid.UUID]*entity.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	result := make([]*entity.BudgetWithCategory, len(budgets))
	for i, b := range budgets {
		result[i] = &entity.BudgetWithCategory{Budget: b, Category: byID[b.CategoryID]}
	}
	return result, nil
}
