package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedCategory(t *testing.T, repo adapter.CategoryRepository, userID uuid.UUID, name string, categoryType entity.CategoryType) *entity.Category {
	t.Helper()
	category := entity.NewCategory(name, entity.DefaultCategoryColor, entity.DefaultCategoryIcon, userID, categoryType, nil)
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func newExpense(userID, categoryID uuid.UUID, amount string, date time.Time) *entity.Transaction {
	return entity.NewTransaction(userID, entity.TransactionTypeExpense, decimal.RequireFromString(amount),
		categoryID, "groceries", date, entity.PaymentMethodDebitCard, []string{"home"}, nil)
}

func TestTransactionRepository_SumExpensesExcludesInactiveRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := NewCategoryRepository(db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	food := seedCategory(t, categories, userID, "Food", entity.CategoryTypeExpense)

	kept := newExpense(userID, food.ID, "850.00", day(2024, time.December, 5))
	deleted := newExpense(userID, food.ID, "200.00", day(2024, time.December, 6))
	archived := newExpense(userID, food.ID, "10.50", day(2024, time.December, 7))
	outside := newExpense(userID, food.ID, "99.00", day(2025, time.January, 1))
	require.NoError(t, repo.CreateBatch(ctx, []*entity.Transaction{kept, deleted, archived, outside}))

	now := time.Now().UTC()
	deleted.SoftDelete(now)
	require.NoError(t, repo.UpdateStatus(ctx, deleted))
	archived.Archive(now)
	require.NoError(t, repo.UpdateStatus(ctx, archived))

	sum, err := repo.SumExpenses(ctx, userID, food.ID, day(2024, time.December, 1), day(2025, time.January, 1))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("850").Equal(sum), "got %s", sum)

	got, err := repo.FindByID(ctx, deleted.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusDeleted, got.Status)
	assert.NotNil(t, got.DeletedAt)
	assert.Equal(t, []string{"home"}, got.Tags)
}

func TestTransactionRepository_ConditionalWritesSkipInactiveRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := NewCategoryRepository(db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	food := seedCategory(t, categories, userID, "Food", entity.CategoryTypeExpense)
	txn := newExpense(userID, food.ID, "850.00", day(2024, time.December, 5))
	require.NoError(t, repo.Create(ctx, txn))

	stale := *txn
	deleteAt := time.Now().UTC()
	txn.SoftDelete(deleteAt)
	require.NoError(t, repo.UpdateStatus(ctx, txn))

	stale.Description = "edited after delete"
	stale.Amount = decimal.RequireFromString("1.00")
	assert.ErrorIs(t, repo.UpdateDetails(ctx, &stale), domainerror.ErrTransactionNotEditable)

	stale.Archive(deleteAt)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, &stale), domainerror.ErrTransactionNotEditable)

	got, err := repo.FindByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusDeleted, got.Status)
	assert.NotNil(t, got.DeletedAt)
	assert.Equal(t, "groceries", got.Description)
	assert.True(t, decimal.RequireFromString("850").Equal(got.Amount))
}

func TestTransactionRepository_UpdateDetailsLeavesStatusAlone(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := NewCategoryRepository(db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	food := seedCategory(t, categories, userID, "Food", entity.CategoryTypeExpense)
	txn := newExpense(userID, food.ID, "12.00", day(2024, time.December, 5))
	require.NoError(t, repo.Create(ctx, txn))

	txn.Description = "farmers market"
	txn.Tags = []string{"market"}
	txn.Status = entity.TransactionStatusArchived
	require.NoError(t, repo.UpdateDetails(ctx, txn))

	got, err := repo.FindByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "farmers market", got.Description)
	assert.Equal(t, []string{"market"}, got.Tags)
	assert.Equal(t, entity.TransactionStatusActive, got.Status)
}

func TestTransactionRepository_FindByFilter(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := NewCategoryRepository(db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	food := seedCategory(t, categories, userID, "Food", entity.CategoryTypeExpense)

	for i, amount := range []string{"10", "30", "20"} {
		require.NoError(t, repo.Create(ctx, newExpense(userID, food.ID, amount, day(2024, time.March, i+1))))
	}
	require.NoError(t, repo.Create(ctx, newExpense(uuid.New(), food.ID, "5", day(2024, time.March, 1))))

	result, err := repo.FindByFilter(ctx,
		adapter.TransactionFilter{UserID: userID},
		adapter.TransactionPagination{Page: 1, Limit: 2, SortBy: adapter.SortByAmount, SortDesc: true},
	)
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "30", result.Transactions[0].Transaction.Amount.String())
	assert.Equal(t, "20", result.Transactions[1].Transaction.Amount.String())
	require.NotNil(t, result.Transactions[0].Category)
	assert.Equal(t, "Food", result.Transactions[0].Category.Name)
}

func TestTransactionRepository_GetLifetimeTotals(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	categories := NewCategoryRepository(db)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	food := seedCategory(t, categories, userID, "Food", entity.CategoryTypeExpense)
	salary := seedCategory(t, categories, userID, "Salary", entity.CategoryTypeIncome)

	require.NoError(t, repo.Create(ctx, newExpense(userID, food.ID, "12.25", day(2024, time.May, 1))))
	require.NoError(t, repo.Create(ctx, newExpense(userID, food.ID, "7.75", day(2024, time.May, 2))))
	require.NoError(t, repo.Create(ctx, entity.NewTransaction(userID, entity.TransactionTypeIncome,
		decimal.NewFromInt(3000), salary.ID, "payroll", day(2024, time.May, 3), entity.PaymentMethodBankTransfer, nil, nil)))

	totals, err := repo.GetLifetimeTotals(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "3000", totals.Income.String())
	assert.Equal(t, "20", totals.Expense.String())
	assert.Equal(t, int64(3), totals.Count)
}

func TestTransactionRepository_FindByIDNotFound(t *testing.T) {
	repo := NewTransactionRepository(testutil.NewDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerror.ErrTransactionNotFound)
}
