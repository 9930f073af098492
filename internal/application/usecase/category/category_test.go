package category

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/testutil"
)

func TestSeedDefaults_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewCategoryRepository(testutil.NewDB(t))
	uc := NewSeedDefaultsUseCase(repo)

	first, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaultCategories), first.Created)

	second, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Created)

	list, err := NewListCategoriesUseCase(repo).Execute(ctx, ListCategoriesInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Len(t, list.Categories, len(defaultCategories))
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewCategoryRepository(testutil.NewDB(t))
	uc := NewCreateCategoryUseCase(repo)
	userID := uuid.New()

	out, err := uc.Execute(ctx, CreateCategoryInput{UserID: userID, Name: " Pets ", Type: entity.CategoryTypeExpense})
	require.NoError(t, err)
	assert.Equal(t, "Pets", out.Category.Name)
	assert.Equal(t, entity.DefaultCategoryColor, out.Category.Color)

	income := entity.CategoryTypeIncome
	tests := []struct {
		name  string
		input CreateCategoryInput
		kind  domainerror.ErrorKind
	}{
		{"duplicate name", CreateCategoryInput{UserID: userID, Name: "pets", Type: entity.CategoryTypeExpense}, domainerror.KindConflict},
		{"name too long", CreateCategoryInput{UserID: userID, Name: "abcdefghijklmnopqrstuvwxyz012345", Type: entity.CategoryTypeExpense}, domainerror.KindValidation},
		{"bad color", CreateCategoryInput{UserID: userID, Name: "Vet", Color: "blue", Type: entity.CategoryTypeExpense}, domainerror.KindValidation},
		{"bad type", CreateCategoryInput{UserID: userID, Name: "Vet", Type: "transfer"}, domainerror.KindValidation},
		{"parent of other type", CreateCategoryInput{UserID: userID, Name: "Vet", Type: income, ParentCategoryID: &out.Category.ID}, domainerror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			assert.Equal(t, tt.kind, domainerror.KindOf(err))
		})
	}
}

func TestUpdateAndDeleteCategory_GuardedByReferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := persistence.NewCategoryRepository(db)
	transactions := persistence.NewTransactionRepository(db)
	userID := uuid.New()

	created, err := NewCreateCategoryUseCase(categories).Execute(ctx, CreateCategoryInput{UserID: userID, Name: "Food", Type: entity.CategoryTypeExpense})
	require.NoError(t, err)
	food := created.Category

	txn := entity.NewTransaction(userID, entity.TransactionTypeExpense, decimal.NewFromInt(12), food.ID, "lunch",
		testutil.Date(2024, time.June, 1), entity.PaymentMethodCash, nil, nil)
	require.NoError(t, transactions.Create(ctx, txn))

	update := NewUpdateCategoryUseCase(categories, transactions, persistence.NewBudgetRepository(db))
	income := entity.CategoryTypeIncome
	_, err = update.Execute(ctx, UpdateCategoryInput{CategoryID: food.ID, UserID: userID, Type: &income})
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))

	del := NewDeleteCategoryUseCase(categories, transactions)
	err = del.Execute(ctx, DeleteCategoryInput{CategoryID: food.ID, UserID: userID})
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))

	txn.SoftDelete(time.Now().UTC())
	require.NoError(t, transactions.UpdateStatus(ctx, txn))

	require.NoError(t, del.Execute(ctx, DeleteCategoryInput{CategoryID: food.ID, UserID: userID}))
	_, err = categories.FindByID(ctx, food.ID)
	assert.ErrorIs(t, err, domainerror.ErrCategoryNotFound)
}

func TestDeleteCategory_DefaultsAreProtected(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := persistence.NewCategoryRepository(db)

	food := entity.NewDefaultCategory("Food", "#F97316", "utensils", entity.CategoryTypeExpense)
	require.NoError(t, categories.Create(ctx, food))

	err := NewDeleteCategoryUseCase(categories, persistence.NewTransactionRepository(db)).
		Execute(ctx, DeleteCategoryInput{CategoryID: food.ID, UserID: uuid.New()})
	assert.Equal(t, domainerror.KindReference, domainerror.KindOf(err))
}

func TestUpdateCategory_TypeLockedByBudget(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := persistence.NewCategoryRepository(db)
	budgets := persistence.NewBudgetRepository(db)
	userID := uuid.New()

	created, err := NewCreateCategoryUseCase(categories).Execute(ctx, CreateCategoryInput{UserID: userID, Name: "Food", Type: entity.CategoryTypeExpense})
	require.NoError(t, err)
	food := created.Category

	budget := entity.NewBudget(userID, food.ID, decimal.NewFromInt(1000), entity.BudgetPeriodMonthly,
		testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31),
		entity.BudgetNotifications{Enabled: true, ThresholdPercent: entity.DefaultThresholdPercent}, entity.BudgetRollover{})
	require.NoError(t, budgets.Create(ctx, budget))

	update := NewUpdateCategoryUseCase(categories, persistence.NewTransactionRepository(db), budgets)
	income := entity.CategoryTypeIncome
	_, err = update.Execute(ctx, UpdateCategoryInput{CategoryID: food.ID, UserID: userID, Type: &income})

	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))
	assert.ErrorIs(t, err, domainerror.ErrCategoryTypeLocked)

	stored, err := categories.FindByID(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryTypeExpense, stored.Type)

	renamed := "Groceries"
	out, err := update.Execute(ctx, UpdateCategoryInput{CategoryID: food.ID, UserID: userID, Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", out.Category.Name)
}
