package consistency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/statistics"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/testutil"
)

// flakyTransactions fails aggregate scans while broken is set.
type flakyTransactions struct {
	adapter.TransactionRepository
	broken atomic.Bool
}

func (f *flakyTransactions) SumExpenses(ctx context.Context, userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	if f.broken.Load() {
		return decimal.Zero, domainerror.ErrStoreUnavailable
	}
	return f.TransactionRepository.SumExpenses(ctx, userID, categoryID, start, end)
}

func (f *flakyTransactions) GetLifetimeTotals(ctx context.Context, userID uuid.UUID) (*adapter.LedgerTotals, error) {
	if f.broken.Load() {
		return nil, domainerror.ErrStoreUnavailable
	}
	return f.TransactionRepository.GetLifetimeTotals(ctx, userID)
}

type fixture struct {
	ctx          context.Context
	clock        *testutil.Clock
	budgets      adapter.BudgetRepository
	categories   adapter.CategoryRepository
	transactions *flakyTransactions
	stats        adapter.UserStatisticsRepository
	backlog      adapter.RecomputeBacklog
	notifier     *testutil.Notifier
	coordinator  *Coordinator
	factory      *transaction.EntryFactory
	userID       uuid.UUID
	food         *entity.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		ctx:          context.Background(),
		clock:        testutil.NewClock(testutil.Date(2024, time.December, 20)),
		budgets:      persistence.NewBudgetRepository(db),
		categories:   persistence.NewCategoryRepository(db),
		transactions: &flakyTransactions{TransactionRepository: persistence.NewTransactionRepository(db)},
		stats:        persistence.NewUserStatisticsRepository(db),
		backlog:      adapters.NewMemoryBacklog(),
		notifier:     &testutil.Notifier{},
		userID:       uuid.New(),
	}

	aggregator := budget.NewAggregator(f.budgets, f.transactions, f.clock, budget.AggregatorConfig{
		NotificationCooldown: 24 * time.Hour,
		NearLimitPercent:     80,
		RenewalWindowDays:    3,
	})
	rollup := statistics.NewRollup(f.transactions, f.stats, f.clock)
	f.coordinator = NewCoordinator(aggregator, rollup, f.budgets, f.transactions,
		adapters.NewMemoryLocker(), f.backlog, f.notifier,
		Config{RecomputeTimeout: 5 * time.Second, ReconcileConcurrency: 2})
	f.factory = transaction.NewEntryFactory(f.categories, f.clock)

	f.food = entity.NewCategory("Food", "#22C55E", "utensils", f.userID, entity.CategoryTypeExpense, nil)
	require.NoError(t, f.categories.Create(f.ctx, f.food))
	return f
}

func (f *fixture) budget(t *testing.T, amount string, start, end time.Time) *entity.Budget {
	t.Helper()
	b := entity.NewBudget(f.userID, f.food.ID, decimal.RequireFromString(amount), entity.BudgetPeriodMonthly, start, end,
		entity.BudgetNotifications{Enabled: true, ThresholdPercent: 80}, entity.BudgetRollover{MaxRollover: decimal.Zero})
	require.NoError(t, f.budgets.Create(f.ctx, b))
	return b
}

func (f *fixture) spend(t *testing.T, amount string, date time.Time) uuid.UUID {
	t.Helper()
	uc := transaction.NewCreateTransactionUseCase(f.transactions, f.factory, f.coordinator)
	out, err := uc.Execute(f.ctx, transaction.CreateTransactionInput{
		UserID: f.userID,
		Entry: transaction.EntryInput{
			Type:            entity.TransactionTypeExpense,
			Amount:          decimal.RequireFromString(amount),
			CategoryID:      f.food.ID,
			Description:     "Groceries",
			TransactionDate: date,
		},
	})
	require.NoError(t, err)
	return out.Transaction.ID
}

func (f *fixture) stored(t *testing.T, id uuid.UUID) *entity.Budget {
	t.Helper()
	b, err := f.budgets.FindByID(f.ctx, id)
	require.NoError(t, err)
	return b
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCoordinator_LedgerWritesDriveBudgetsAndStats(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "1000", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))

	large := f.spend(t, "850", testutil.Date(2024, time.December, 5))
	got := f.stored(t, b.ID)
	assert.True(t, dec("850").Equal(got.ActualSpent))
	assert.True(t, dec("85").Equal(got.UtilizationRate))
	require.Len(t, f.notifier.Events(), 1)
	assert.Equal(t, b.ID, f.notifier.Events()[0].BudgetID)

	f.spend(t, "200", testutil.Date(2024, time.December, 6))
	got = f.stored(t, b.ID)
	assert.True(t, dec("1050").Equal(got.ActualSpent))
	assert.True(t, got.RemainingAmount.IsZero())
	assert.True(t, dec("100").Equal(got.UtilizationRate))
	assert.Len(t, f.notifier.Events(), 1, "cooldown suppresses the second event")

	del := transaction.NewDeleteTransactionUseCase(f.transactions, f.clock, f.coordinator)
	require.NoError(t, del.Execute(f.ctx, transaction.DeleteTransactionInput{TransactionID: large, UserID: f.userID}))
	got = f.stored(t, b.ID)
	assert.True(t, dec("200").Equal(got.ActualSpent))
	assert.True(t, dec("20").Equal(got.UtilizationRate))

	stats, err := f.stats.FindByUserID(f.ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(stats.TotalExpense))
	assert.Equal(t, int64(1), stats.TransactionCount)
}

func TestCoordinator_EditMovingWindowsRecomputesBoth(t *testing.T) {
	f := newFixture(t)
	november := f.budget(t, "500", testutil.Date(2024, time.November, 1), testutil.Date(2024, time.November, 30))
	december := f.budget(t, "500", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))

	id := f.spend(t, "100", testutil.Date(2024, time.December, 3))
	assert.True(t, f.stored(t, november.ID).ActualSpent.IsZero())
	assert.True(t, dec("100").Equal(f.stored(t, december.ID).ActualSpent))

	moved := testutil.Date(2024, time.November, 28)
	uc := transaction.NewUpdateTransactionUseCase(f.transactions, f.factory, f.coordinator)
	_, err := uc.Execute(f.ctx, transaction.UpdateTransactionInput{TransactionID: id, UserID: f.userID, TransactionDate: &moved})
	require.NoError(t, err)

	assert.True(t, dec("100").Equal(f.stored(t, november.ID).ActualSpent))
	assert.True(t, f.stored(t, december.ID).ActualSpent.IsZero())
}

func TestCoordinator_FailedRecomputeKeepsValuesAndRetries(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "1000", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))
	f.spend(t, "100", testutil.Date(2024, time.December, 2))

	f.transactions.broken.Store(true)
	f.spend(t, "300", testutil.Date(2024, time.December, 3))

	assert.True(t, dec("100").Equal(f.stored(t, b.ID).ActualSpent), "a failed scan must not overwrite derived values")
	users, err := f.backlog.Users(f.ctx)
	require.NoError(t, err)
	assert.Contains(t, users, f.userID)

	f.transactions.broken.Store(false)
	// A write outside the budget window still drains the user's backlog.
	f.spend(t, "5", testutil.Date(2024, time.October, 1))

	assert.True(t, dec("400").Equal(f.stored(t, b.ID).ActualSpent))
	users, err = f.backlog.Users(f.ctx)
	require.NoError(t, err)
	assert.NotContains(t, users, f.userID)

	stats, err := f.stats.FindByUserID(f.ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TransactionCount)
}

func TestCoordinator_NotifierFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.notifier.Err = errors.New("smtp down")
	b := f.budget(t, "100", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))

	f.spend(t, "90", testutil.Date(2024, time.December, 2))

	got := f.stored(t, b.ID)
	assert.True(t, dec("90").Equal(got.ActualSpent))
	assert.NotNil(t, got.Notifications.LastSentAt)
	assert.Len(t, f.notifier.Events(), 1)
}

func TestCoordinator_ConcurrentWritesConverge(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "10000", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))

	uc := transaction.NewCreateTransactionUseCase(f.transactions, f.factory, f.coordinator)
	var wg sync.WaitGroup
	for day := 1; day <= 20; day++ {
		day := day
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(f.ctx, transaction.CreateTransactionInput{
				UserID: f.userID,
				Entry: transaction.EntryInput{
					Type:            entity.TransactionTypeExpense,
					Amount:          dec("10"),
					CategoryID:      f.food.ID,
					Description:     "Coffee",
					TransactionDate: testutil.Date(2024, time.December, day),
				},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, dec("200").Equal(f.stored(t, b.ID).ActualSpent))
	stats, err := f.stats.FindByUserID(f.ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.TransactionCount)
}

func TestCoordinator_ReconcileAllRepairsDrift(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "1000", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))
	f.spend(t, "250", testutil.Date(2024, time.December, 2))

	drifted := f.stored(t, b.ID)
	drifted.ApplySpent(dec("999"))
	require.NoError(t, f.budgets.UpdateDerived(f.ctx, drifted))
	require.NoError(t, f.stats.Replace(f.ctx, &entity.UserStatistics{
		UserID: f.userID, TotalIncome: decimal.Zero, TotalExpense: dec("1"), TransactionCount: 42,
	}))

	report, err := f.coordinator.ReconcileAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Users)
	assert.Equal(t, 1, report.Budgets)
	assert.Zero(t, report.Failures)

	assert.True(t, dec("250").Equal(f.stored(t, b.ID).ActualSpent))
	stats, err := f.stats.FindByUserID(f.ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TransactionCount)
}

func TestGroupByUser_DeduplicatesTuples(t *testing.T) {
	alice, bob, food := uuid.New(), uuid.New(), uuid.New()
	morning := time.Date(2024, time.December, 5, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, time.December, 5, 21, 0, 0, 0, time.UTC)

	groups := groupByUser([]entity.LedgerTouch{
		{UserID: alice, CategoryID: food, TransactionDate: morning},
		{UserID: bob, CategoryID: food, TransactionDate: morning},
		{UserID: alice, CategoryID: food, TransactionDate: evening},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, alice, groups[0].userID)
	assert.Len(t, groups[0].touches, 1)
	assert.Equal(t, bob, groups[1].userID)
}
