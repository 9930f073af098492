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
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// CreateBudgetInput represents the input for budget creation.
type CreateBudgetInput struct {
	UserID        uuid.UUID
	CategoryID    uuid.UUID
	Amount        decimal.Decimal
	Period        entity.BudgetPeriod
	StartDate     time.Time
	EndDate       *time.Time // Optional, defaults to the end of the natural period
	Notifications *NotificationSettingsInput
	Rollover      *RolloverSettingsInput
}

// CreateBudgetOutput represents the output of budget creation.
type CreateBudgetOutput struct {
	Budget *entity.BudgetWithCategory
}

// CreateBudgetUseCase handles budget creation logic.
type CreateBudgetUseCase struct {
	budgetRepo   adapter.BudgetRepository
	categoryRepo adapter.CategoryRepository
	refresher    adapter.BudgetRefresher
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	categoryRepo adapter.CategoryRepository,
	refresher adapter.BudgetRefresher,
) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		refresher:    refresher,
	}
}

// Execute validates and stores the budget, then computes its derived fields from the ledger.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*CreateBudgetOutput, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}

	if !input.Period.IsValid() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetPeriod,
			"period must be 'daily', 'weekly', 'monthly' or 'yearly'",
			domainerror.ErrInvalidBudgetPeriod,
		)
	}

	if input.StartDate.IsZero() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeMissingBudgetFields,
			"start date is required",
			domainerror.ErrInvalidBudgetWindow,
		)
	}

	category, err := resolveExpenseCategory(ctx, uc.categoryRepo, input.UserID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	notifications := entity.BudgetNotifications{Enabled: true, ThresholdPercent: entity.DefaultThresholdPercent}
	rollover := entity.BudgetRollover{MaxRollover: decimal.Zero}

	budget := entity.NewBudget(input.UserID, category.ID, input.Amount, input.Period,
		input.StartDate, input.StartDate, notifications, rollover)

	if input.EndDate != nil {
		budget.EndDate = input.EndDate.UTC()
		if err := validateWindow(budget); err != nil {
			return nil, err
		}
	} else {
		budget.EndDate = valueobject.WindowFor(input.Period, input.StartDate).End
	}

	if err := applyNotifications(budget, input.Notifications); err != nil {
		return nil, err
	}
	if err := applyRollover(budget, input.Rollover); err != nil {
		return nil, err
	}

	if err := uc.budgetRepo.Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return &CreateBudgetOutput{
		Budget: &entity.BudgetWithCategory{
			Budget:   refresh(ctx, uc.refresher, budget),
			Category: category,
		},
	}, nil
}
