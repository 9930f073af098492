package statistics

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
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/testutil"
)

type fixture struct {
	ctx          context.Context
	clock        *testutil.Clock
	categories   adapter.CategoryRepository
	transactions adapter.TransactionRepository
	stats        adapter.UserStatisticsRepository
	rollup       *Rollup
	userID       uuid.UUID
	food         *entity.Category
	rent         *entity.Category
	salary       *entity.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		ctx:          context.Background(),
		clock:        testutil.NewClock(testutil.Date(2024, time.December, 20)),
		categories:   persistence.NewCategoryRepository(db),
		transactions: persistence.NewTransactionRepository(db),
		stats:        persistence.NewUserStatisticsRepository(db),
		userID:       uuid.New(),
	}
	f.rollup = NewRollup(f.transactions, f.stats, f.clock)

	f.food = entity.NewCategory("Food", "#22C55E", "utensils", f.userID, entity.CategoryTypeExpense, nil)
	f.rent = entity.NewCategory("Rent", "#F97316", "home", f.userID, entity.CategoryTypeExpense, nil)
	f.salary = entity.NewCategory("Salary", "#3B82F6", "briefcase", f.userID, entity.CategoryTypeIncome, nil)
	for _, c := range []*entity.Category{f.food, f.rent, f.salary} {
		require.NoError(t, f.categories.Create(f.ctx, c))
	}
	return f
}

func (f *fixture) add(t *testing.T, category *entity.Category, amount string, at time.Time, method entity.PaymentMethod) *entity.Transaction {
	t.Helper()
	txnType := entity.TransactionTypeExpense
	if category.Type == entity.CategoryTypeIncome {
		txnType = entity.TransactionTypeIncome
	}
	txn := entity.NewTransaction(f.userID, txnType, decimal.RequireFromString(amount), category.ID, category.Name,
		at, method, nil, nil)
	require.NoError(t, f.transactions.Create(f.ctx, txn))
	return txn
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRollup_RecomputeUserStatsReplacesCounters(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.salary, "1000", testutil.Date(2024, time.December, 1), entity.PaymentMethodBankTransfer)
	f.add(t, f.food, "200", testutil.Date(2024, time.December, 2), entity.PaymentMethodCash)
	lunch := f.add(t, f.food, "50", testutil.Date(2024, time.December, 3), entity.PaymentMethodCash)

	stats, err := f.rollup.RecomputeUserStats(f.ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(stats.TotalIncome))
	assert.True(t, dec("250").Equal(stats.TotalExpense))
	assert.Equal(t, int64(3), stats.TransactionCount)

	lunch.SoftDelete(f.clock.Now())
	require.NoError(t, f.transactions.UpdateStatus(f.ctx, lunch))
	_, err = f.rollup.RecomputeUserStats(f.ctx, f.userID)
	require.NoError(t, err)

	out, err := NewGetUserStatsUseCase(f.stats).Execute(f.ctx, GetUserStatsInput{UserID: f.userID})
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(out.Stats.TotalExpense))
	assert.Equal(t, int64(2), out.Stats.TransactionCount)
	assert.True(t, dec("800").Equal(out.Balance))
}

func TestGetUserStats_ZeroForUnknownUser(t *testing.T) {
	f := newFixture(t)

	out, err := NewGetUserStatsUseCase(f.stats).Execute(f.ctx, GetUserStatsInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.True(t, out.Stats.TotalIncome.IsZero())
	assert.Zero(t, out.Stats.TransactionCount)
}

func TestGetMonthlyTrend(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.salary, "1000", testutil.Date(2024, time.November, 1), entity.PaymentMethodBankTransfer)
	f.add(t, f.food, "80", testutil.Date(2024, time.November, 15), entity.PaymentMethodCash)
	f.add(t, f.food, "20", testutil.Date(2024, time.December, 2), entity.PaymentMethodCash)
	f.add(t, f.food, "999", testutil.Date(2023, time.January, 2), entity.PaymentMethodCash)

	out, err := NewGetMonthlyTrendUseCase(f.rollup, f.clock).Execute(f.ctx, GetMonthlyTrendInput{UserID: f.userID})
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(2024, time.January, 1), out.Range.Start)
	assert.Equal(t, testutil.Date(2025, time.January, 1), out.Range.End)

	require.Len(t, out.Rows, 2)
	assert.Equal(t, time.November, out.Rows[0].Month)
	assert.True(t, dec("1000").Equal(out.Rows[0].Income))
	assert.True(t, dec("80").Equal(out.Rows[0].Expense))
	assert.Equal(t, 2, out.Rows[0].TransactionCount)
	assert.Equal(t, time.December, out.Rows[1].Month)
	assert.True(t, out.Rows[1].Income.IsZero())

	_, err = NewGetMonthlyTrendUseCase(f.rollup, f.clock).Execute(f.ctx, GetMonthlyTrendInput{UserID: f.userID, Months: 61})
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
}

func TestGetCategoryRanking(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.rent, "750", testutil.Date(2024, time.December, 1), entity.PaymentMethodBankTransfer)
	f.add(t, f.food, "100", testutil.Date(2024, time.December, 2), entity.PaymentMethodCash)
	f.add(t, f.food, "150", testutil.Date(2024, time.December, 3), entity.PaymentMethodCreditCard)
	f.add(t, f.salary, "5000", testutil.Date(2024, time.December, 1), entity.PaymentMethodBankTransfer)

	uc := NewGetCategoryRankingUseCase(f.rollup, f.categories, f.clock)
	out, err := uc.Execute(f.ctx, GetCategoryRankingInput{UserID: f.userID})
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(out.TotalExpenses))
	require.Len(t, out.Items, 2)

	assert.Equal(t, "Rent", out.Items[0].Category.Name)
	assert.True(t, dec("75").Equal(out.Items[0].Percentage))
	assert.Equal(t, "Food", out.Items[1].Category.Name)
	assert.Equal(t, 2, out.Items[1].Count)
	assert.True(t, dec("125").Equal(out.Items[1].AverageAmount))
	assert.True(t, dec("25").Equal(out.Items[1].Percentage))

	top, err := uc.Execute(f.ctx, GetCategoryRankingInput{UserID: f.userID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, top.Items, 1)
	assert.True(t, dec("75").Equal(top.Items[0].Percentage))

	_, err = uc.Execute(f.ctx, GetCategoryRankingInput{UserID: f.userID, Limit: 51})
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))

	start := testutil.Date(2024, time.December, 10)
	end := testutil.Date(2024, time.December, 1)
	_, err = uc.Execute(f.ctx, GetCategoryRankingInput{UserID: f.userID, StartDate: &start, EndDate: &end})
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
}

func TestGetPaymentMethodsAndTimeOfDay(t *testing.T) {
	f := newFixture(t)
	// 2024-12-07 is a Saturday, 2024-12-11 a Wednesday.
	f.add(t, f.food, "30", time.Date(2024, time.December, 7, 10, 0, 0, 0, time.UTC), entity.PaymentMethodCash)
	f.add(t, f.food, "10", time.Date(2024, time.December, 7, 11, 30, 0, 0, time.UTC), entity.PaymentMethodCash)
	f.add(t, f.food, "60", time.Date(2024, time.December, 11, 20, 0, 0, 0, time.UTC), entity.PaymentMethodDebitCard)

	methods, err := NewGetPaymentMethodsUseCase(f.rollup, f.clock).Execute(f.ctx, GetPaymentMethodsInput{UserID: f.userID})
	require.NoError(t, err)
	require.Len(t, methods.Rows, 2)
	assert.Equal(t, entity.PaymentMethodDebitCard, methods.Rows[0].PaymentMethod)
	assert.True(t, dec("60").Equal(methods.Rows[0].Percentage))
	assert.Equal(t, 2, methods.Rows[1].Count)

	pattern, err := NewGetTimeOfDayUseCase(f.rollup, f.clock).Execute(f.ctx, GetTimeOfDayInput{UserID: f.userID})
	require.NoError(t, err)
	require.Len(t, pattern.Rows, 2)
	assert.False(t, pattern.Rows[0].Weekend)
	assert.Equal(t, entity.DayPartEvening, pattern.Rows[0].DayPart)
	assert.True(t, pattern.Rows[1].Weekend)
	assert.Equal(t, entity.DayPartMorning, pattern.Rows[1].DayPart)
	assert.True(t, dec("20").Equal(pattern.Rows[1].AverageAmount))
}

func TestGetOverview(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.food, "40", testutil.Date(2024, time.December, 4), entity.PaymentMethodCash)
	_, err := f.rollup.RecomputeUserStats(f.ctx, f.userID)
	require.NoError(t, err)

	uc := NewGetOverviewUseCase(
		NewGetUserStatsUseCase(f.stats),
		NewGetCategoryRankingUseCase(f.rollup, f.categories, f.clock),
		NewGetPaymentMethodsUseCase(f.rollup, f.clock),
		NewGetTimeOfDayUseCase(f.rollup, f.clock),
	)
	out, err := uc.Execute(f.ctx, GetOverviewInput{UserID: f.userID})
	require.NoError(t, err)
	assert.True(t, dec("40").Equal(out.Lifetime.Stats.TotalExpense))
	assert.Len(t, out.Ranking.Items, 1)
	assert.Len(t, out.PaymentMethods.Rows, 1)
	assert.Len(t, out.TimeOfDay.Rows, 1)
}

func TestGetOverview_AllViewsShareTheRange(t *testing.T) {
	f := newFixture(t)
	// Both land in the weekday night bucket; only December is inside the range.
	f.add(t, f.food, "40", testutil.Date(2024, time.December, 4), entity.PaymentMethodCash)
	f.add(t, f.food, "25", testutil.Date(2024, time.October, 15), entity.PaymentMethodCash)

	uc := NewGetOverviewUseCase(
		NewGetUserStatsUseCase(f.stats),
		NewGetCategoryRankingUseCase(f.rollup, f.categories, f.clock),
		NewGetPaymentMethodsUseCase(f.rollup, f.clock),
		NewGetTimeOfDayUseCase(f.rollup, f.clock),
	)
	start := testutil.Date(2024, time.December, 1)
	end := testutil.Date(2024, time.December, 5)
	out, err := uc.Execute(f.ctx, GetOverviewInput{UserID: f.userID, StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, out.PaymentMethods.Range, out.TimeOfDay.Range)
	require.Len(t, out.TimeOfDay.Rows, 1)
	assert.True(t, dec("40").Equal(out.TimeOfDay.Rows[0].AverageAmount), "got %s", out.TimeOfDay.Rows[0].AverageAmount)

	wide, err := NewGetTimeOfDayUseCase(f.rollup, f.clock).Execute(f.ctx, GetTimeOfDayInput{UserID: f.userID})
	require.NoError(t, err)
	require.Len(t, wide.Rows, 1)
	assert.True(t, dec("32.5").Equal(wide.Rows[0].AverageAmount), "got %s", wide.Rows[0].AverageAmount)
}
