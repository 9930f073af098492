// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

type defaultCategory struct {
	name  string
	color string
	icon  string
	kind  entity.CategoryType
}

var defaultCategories = []defaultCategory{
	{"Food", "#F97316", "utensils", entity.CategoryTypeExpense},
	{"Transport", "#0EA5E9", "car", entity.CategoryTypeExpense},
	{"Housing", "#8B5CF6", "home", entity.CategoryTypeExpense},
	{"Utilities", "#EAB308", "bolt", entity.CategoryTypeExpense},
	{"Health", "#EF4444", "heart", entity.CategoryTypeExpense},
	{"Entertainment", "#EC4899", "film", entity.CategoryTypeExpense},
	{"Shopping", "#14B8A6", "bag", entity.CategoryTypeExpense},
	{"Education", "#6366F1", "book", entity.CategoryTypeExpense},
	{"Other Expense", "#64748B", "tag", entity.CategoryTypeExpense},
	{"Salary", "#22C55E", "briefcase", entity.CategoryTypeIncome},
	{"Freelance", "#10B981", "laptop", entity.CategoryTypeIncome},
	{"Investments", "#84CC16", "chart", entity.CategoryTypeIncome},
	{"Other Income", "#64748B", "tag", entity.CategoryTypeIncome},
}

// SeedDefaultsOutput reports how many defaults were inserted.
type SeedDefaultsOutput struct {
	Created int
}

// SeedDefaultsUseCase creates the system default categories. Running it again is a no-op.
type SeedDefaultsUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewSeedDefaultsUseCase creates a new SeedDefaultsUseCase instance.
func NewSeedDefaultsUseCase(categoryRepo adapter.CategoryRepository) *SeedDefaultsUseCase {
	return &SeedDefaultsUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute inserts every missing default.
func (uc *SeedDefaultsUseCase) Execute(ctx context.Context) (*SeedDefaultsOutput, error) {
	created := 0
	for _, d := range defaultCategories {
		exists, err := uc.categoryRepo.ExistsByNameAndOwner(ctx, d.name, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check default category %q: %w", d.name, err)
		}
		if exists {
			continue
		}

		if err := uc.categoryRepo.Create(ctx, entity.NewDefaultCategory(d.name, d.color, d.icon, d.kind)); err != nil {
			return nil, fmt.Errorf("failed to create default category %q: %w", d.name, err)
		}
		created++
	}

	if created > 0 {
		slog.Info("Seeded default categories", "created", created)
	}
	return &SeedDefaultsOutput{Created: created}, nil
}
