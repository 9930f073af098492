// Package statistics contains the ledger rollups and analytical views.
package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// GetCategoryRankingInput represents the input for the category ranking.
type GetCategoryRankingInput struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// CategoryRankingItem is a ranking row joined with its category.
type CategoryRankingItem struct {
	entity.CategoryRankingRow
	Category *entity.Category
}

// GetCategoryRankingOutput represents the output of the category ranking.
type GetCategoryRankingOutput struct {
	Range         DateRange
	TotalExpenses decimal.Decimal
	Items         []CategoryRankingItem
}

// GetCategoryRankingUseCase ranks expense categories by spending.
type GetCategoryRankingUseCase struct {
	rollup       *Rollup
	categoryRepo adapter.CategoryRepository
	clock        adapter.Clock
}

// NewGetCategoryRankingUseCase creates a new GetCategoryRankingUseCase instance.
func NewGetCategoryRankingUseCase(rollup *Rollup, categoryRepo adapter.CategoryRepository, clock adapter.Clock) *GetCategoryRankingUseCase {
	return &GetCategoryRankingUseCase{
		rollup:       rollup,
		categoryRepo: categoryRepo,
		clock:        clock,
	}
}

// Execute performs the ranking. The range defaults to the current month.
func (uc *GetCategoryRankingUseCase) Execute(ctx context.Context, input GetCategoryRankingInput) (*GetCategoryRankingOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = DefaultRankingLimit
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	r, err := resolveRange(input.StartDate, input.EndDate, lastMonths(uc.clock.Now(), 1))
	if err != nil {
		return nil, err
	}

	rows, total, err := uc.rollup.CategoryRanking(ctx, input.UserID, r.Start, r.End, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.CategoryID
	}
	// Deleted categories still label their historical spending.
	categories, err := uc.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[uuid.UUID]*entity.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	items := make([]CategoryRankingItem, len(rows))
	for i, row := range rows {
		items[i] = CategoryRankingItem{CategoryRankingRow: row, Category: byID[row.CategoryID]}
	}

	return &GetCategoryRankingOutput{
		Range:         r,
		TotalExpenses: total,
		Items:         items,
	}, nil
}
