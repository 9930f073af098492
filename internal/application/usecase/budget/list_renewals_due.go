// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// ListRenewalsDueInput represents the input for listing budgets due for renewal.
type ListRenewalsDueInput struct {
	UserID *uuid.UUID // Optional, nil scans every user
}

// ListRenewalsDueOutput represents the output of listing budgets due for renewal.
type ListRenewalsDueOutput struct {
	Budgets []*entity.Budget
}

// ListRenewalsDueUseCase finds active budgets that end within the renewal window.
type ListRenewalsDueUseCase struct {
	budgetRepo adapter.BudgetRepository
	aggregator *Aggregator
	clock      adapter.Clock
}

// NewListRenewalsDueUseCase creates a new ListRenewalsDueUseCase instance.
func NewListRenewalsDueUseCase(budgetRepo adapter.BudgetRepository, aggregator *Aggregator, clock adapter.Clock) *ListRenewalsDueUseCase {
	return &ListRenewalsDueUseCase{
		budgetRepo: budgetRepo,
		aggregator: aggregator,
		clock:      clock,
	}
}

// Execute performs the scan.
func (uc *ListRenewalsDueUseCase) Execute(ctx context.Context, input ListRenewalsDueInput) (*ListRenewalsDueOutput, error) {
	var userIDs []uuid.UUID
	if input.UserID != nil {
		userIDs = []uuid.UUID{*input.UserID}
	} else {
		ids, err := uc.budgetRepo.FindUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list budget owners: %w", err)
		}
		userIDs = ids
	}

	now := uc.clock.Now()
	active := entity.BudgetStatusActive
	due := make([]*entity.Budget, 0)
	for _, userID := range userIDs {
		budgets, err := uc.budgetRepo.FindByUser(ctx, userID, &active)
		if err != nil {
			return nil, fmt.Errorf("failed to list budgets: %w", err)
		}
		for _, b := range budgets {
			if uc.aggregator.RenewalDue(b, now) {
				due = append(due, b)
			}
		}
	}
	return &ListRenewalsDueOutput{Budgets: due}, nil
}
