// Package statistics contains the ledger rollups and analytical views.
package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// GetUserStatsInput represents the input for reading lifetime counters.
type GetUserStatsInput struct {
	UserID uuid.UUID
}

// GetUserStatsOutput represents the stored lifetime counters.
type GetUserStatsOutput struct {
	Stats   *entity.UserStatistics
	Balance decimal.Decimal
}

// GetUserStatsUseCase reads the persisted lifetime counters of a user.
type GetUserStatsUseCase struct {
	statsRepo adapter.UserStatisticsRepository
}

// NewGetUserStatsUseCase creates a new GetUserStatsUseCase instance.
func NewGetUserStatsUseCase(statsRepo adapter.UserStatisticsRepository) *GetUserStatsUseCase {
	return &GetUserStatsUseCase{
		statsRepo: statsRepo,
	}
}

// Execute returns zero counters for users that never wrote to the ledger.
func (uc *GetUserStatsUseCase) Execute(ctx context.Context, input GetUserStatsInput) (*GetUserStatsOutput, error) {
	stats, err := uc.statsRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		if !errors.Is(err, domainerror.ErrUserStatisticsNotFound) {
			return nil, fmt.Errorf("failed to read user statistics: %w", err)
		}
		stats = &entity.UserStatistics{
			UserID:       input.UserID,
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
		}
	}

	return &GetUserStatsOutput{
		Stats:   stats,
		Balance: stats.Balance(),
	}, nil
}
