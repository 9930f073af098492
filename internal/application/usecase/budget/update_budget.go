// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// UpdateBudgetInput represents the input for budget update.
type UpdateBudgetInput struct {
	BudgetID      uuid.UUID
	UserID        uuid.UUID
	Amount        *decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
	Notifications *NotificationSettingsInput
	Rollover      *RolloverSettingsInput
	Status        *entity.BudgetStatus // Only active and paused may be set here
}

// UpdateBudgetOutput represents the output of budget update.
type UpdateBudgetOutput struct {
	Budget *entity.Budget
}

// UpdateBudgetUseCase handles budget update logic.
type UpdateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	refresher  adapter.BudgetRefresher
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(budgetRepo adapter.BudgetRepository, refresher adapter.BudgetRefresher) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		budgetRepo: budgetRepo,
		refresher:  refresher,
	}
}

// Execute applies the patch and recomputes the budget.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	budget, err := findOwnedBudget(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}

	if budget.Status == entity.BudgetStatusCompleted || budget.Status == entity.BudgetStatusCancelled {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetClosed,
			fmt.Sprintf("budget is %s", budget.Status),
			domainerror.ErrBudgetClosed,
		)
	}

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		budget.Amount = *input.Amount
	}

	if input.StartDate != nil {
		budget.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		budget.EndDate = input.EndDate.UTC()
	}
	if input.StartDate != nil || input.EndDate != nil {
		if err := validateWindow(budget); err != nil {
			return nil, err
		}
	}

	if err := applyNotifications(budget, input.Notifications); err != nil {
		return nil, err
	}
	if err := applyRollover(budget, input.Rollover); err != nil {
		return nil, err
	}

	if input.Status != nil {
		if *input.Status != entity.BudgetStatusActive && *input.Status != entity.BudgetStatusPaused {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidBudgetStatus,
				"status must be 'active' or 'paused'",
				domainerror.ErrInvalidBudgetStatus,
			)
		}
		budget.Status = *input.Status
	}

	budget.UpdatedAt = time.Now().UTC()
	if err := uc.budgetRepo.Update(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return &UpdateBudgetOutput{Budget: refresh(ctx, uc.refresher, budget)}, nil
}
