// Package statistics contains the ledger rollups and analytical views.
package statistics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GetOverviewInput represents the input for the statistics overview.
type GetOverviewInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// GetOverviewOutput bundles every statistics view for one range.
type GetOverviewOutput struct {
	Lifetime       *GetUserStatsOutput
	Ranking        *GetCategoryRankingOutput
	PaymentMethods *GetPaymentMethodsOutput
	TimeOfDay      *GetTimeOfDayOutput
}

// GetOverviewUseCase assembles the statistics views concurrently.
type GetOverviewUseCase struct {
	userStats      *GetUserStatsUseCase
	ranking        *GetCategoryRankingUseCase
	paymentMethods *GetPaymentMethodsUseCase
	timeOfDay      *GetTimeOfDayUseCase
}

// NewGetOverviewUseCase creates a new GetOverviewUseCase instance.
func NewGetOverviewUseCase(
	userStats *GetUserStatsUseCase,
	ranking *GetCategoryRankingUseCase,
	paymentMethods *GetPaymentMethodsUseCase,
	timeOfDay *GetTimeOfDayUseCase,
) *GetOverviewUseCase {
	return &GetOverviewUseCase{
		userStats:      userStats,
		ranking:        ranking,
		paymentMethods: paymentMethods,
		timeOfDay:      timeOfDay,
	}
}

// Execute runs the views in parallel and fails on the first error.
func (uc *GetOverviewUseCase) Execute(ctx context.Context, input GetOverviewInput) (*GetOverviewOutput, error) {
	out := &GetOverviewOutput{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := uc.userStats.Execute(gctx, GetUserStatsInput{UserID: input.UserID})
		out.Lifetime = res
		return err
	})
	g.Go(func() error {
		res, err := uc.ranking.Execute(gctx, GetCategoryRankingInput{
			UserID:    input.UserID,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
		out.Ranking = res
		return err
	})
	g.Go(func() error {
		res, err := uc.paymentMethods.Execute(gctx, GetPaymentMethodsInput{
			UserID:    input.UserID,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
		out.PaymentMethods = res
		return err
	})
	g.Go(func() error {
		res, err := uc.timeOfDay.Execute(gctx, GetTimeOfDayInput{
			UserID:    input.UserID,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
		out.TimeOfDay = res
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
