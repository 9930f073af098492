package budget

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

// directRefresher recomputes without locking and keeps the emitted events.
type directRefresher struct {
	aggregator *Aggregator
	events     []*entity.BudgetThresholdEvent
}

func (r *directRefresher) RefreshBudget(ctx context.Context, budgetID uuid.UUID) (*entity.Budget, error) {
	budget, event, err := r.aggregator.Recompute(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if event != nil {
		r.events = append(r.events, event)
	}
	return budget, nil
}

type fixture struct {
	ctx          context.Context
	clock        *testutil.Clock
	budgets      adapter.BudgetRepository
	categories   adapter.CategoryRepository
	transactions adapter.TransactionRepository
	aggregator   *Aggregator
	refresher    *directRefresher
	userID       uuid.UUID
	food         *entity.Category
	salary       *entity.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		ctx:          context.Background(),
		clock:        testutil.NewClock(testutil.Date(2024, time.December, 20)),
		budgets:      persistence.NewBudgetRepository(db),
		categories:   persistence.NewCategoryRepository(db),
		transactions: persistence.NewTransactionRepository(db),
		userID:       uuid.New(),
	}
	f.aggregator = NewAggregator(f.budgets, f.transactions, f.clock, AggregatorConfig{
		NotificationCooldown: 24 * time.Hour,
		NearLimitPercent:     80,
		RenewalWindowDays:    3,
	})
	f.refresher = &directRefresher{aggregator: f.aggregator}

	f.food = entity.NewCategory("Food", "#22C55E", "utensils", f.userID, entity.CategoryTypeExpense, nil)
	f.salary = entity.NewCategory("Salary", "#3B82F6", "briefcase", f.userID, entity.CategoryTypeIncome, nil)
	require.NoError(t, f.categories.Create(f.ctx, f.food))
	require.NoError(t, f.categories.Create(f.ctx, f.salary))
	return f
}

func (f *fixture) budget(t *testing.T, amount string, start, end time.Time) *entity.Budget {
	t.Helper()
	b := entity.NewBudget(f.userID, f.food.ID, decimal.RequireFromString(amount), entity.BudgetPeriodMonthly, start, end,
		entity.BudgetNotifications{Enabled: true, ThresholdPercent: 80}, entity.BudgetRollover{MaxRollover: decimal.Zero})
	require.NoError(t, f.budgets.Create(f.ctx, b))
	return b
}

func (f *fixture) expense(t *testing.T, amount string, date time.Time) *entity.Transaction {
	t.Helper()
	txn := entity.NewTransaction(f.userID, entity.TransactionTypeExpense, decimal.RequireFromString(amount),
		f.food.ID, "Groceries", date, entity.PaymentMethodCash, nil, nil)
	require.NoError(t, f.transactions.Create(f.ctx, txn))
	return txn
}

func (f *fixture) recompute(t *testing.T, id uuid.UUID) (*entity.Budget, *entity.BudgetThresholdEvent) {
	t.Helper()
	b, event, err := f.aggregator.Recompute(f.ctx, id)
	require.NoError(t, err)
	return b, event
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregator_ThresholdOverBudgetAndSoftDelete(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "1000", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))

	large := f.expense(t, "850", testutil.Date(2024, time.December, 5))
	got, event := f.recompute(t, b.ID)
	assert.True(t, dec("850").Equal(got.ActualSpent))
	assert.True(t, dec("85").Equal(got.UtilizationRate))
	require.NotNil(t, event)
	assert.Equal(t, b.ID, event.BudgetID)
	assert.False(t, event.OverBudget)

	// Repeating the recompute yields the same values and no second event.
	again, event := f.recompute(t, b.ID)
	assert.True(t, got.ActualSpent.Equal(again.ActualSpent))
	assert.Nil(t, event)

	f.expense(t, "200", testutil.Date(2024, time.December, 6))
	got, _ = f.recompute(t, b.ID)
	assert.True(t, dec("1050").Equal(got.ActualSpent))
	assert.True(t, got.RemainingAmount.IsZero())
	assert.True(t, dec("100").Equal(got.UtilizationRate))
	assert.True(t, got.IsOverBudget())

	large.SoftDelete(f.clock.Now())
	require.NoError(t, f.transactions.UpdateStatus(f.ctx, large))
	got, _ = f.recompute(t, b.ID)
	assert.True(t, dec("200").Equal(got.ActualSpent))
	assert.True(t, dec("20").Equal(got.UtilizationRate))

	stored, err := f.budgets.FindByID(f.ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(stored.ActualSpent))
	assert.NotNil(t, stored.RecomputedAt)
}

func TestAggregator_DisjointWindowsAreIndependent(t *testing.T) {
	f := newFixture(t)
	november := f.budget(t, "500", testutil.Date(2024, time.November, 1), testutil.Date(2024, time.November, 30))
	december := f.budget(t, "500", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))

	f.expense(t, "120", time.Date(2024, time.November, 30, 23, 30, 0, 0, time.UTC))

	affected, err := f.aggregator.FindAffectedBudgets(f.ctx, f.userID, f.food.ID, time.Date(2024, time.November, 30, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, affected, 1)
	assert.Equal(t, november.ID, affected[0].ID)

	got, _ := f.recompute(t, november.ID)
	assert.True(t, dec("120").Equal(got.ActualSpent))
	got, _ = f.recompute(t, december.ID)
	assert.True(t, got.ActualSpent.IsZero())
}

func TestAggregator_IgnoresIncomeAndOtherCategories(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "100", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))

	income := entity.NewTransaction(f.userID, entity.TransactionTypeIncome, dec("900"), f.salary.ID, "Pay",
		testutil.Date(2024, time.December, 2), entity.PaymentMethodBankTransfer, nil, nil)
	require.NoError(t, f.transactions.Create(f.ctx, income))

	got, event := f.recompute(t, b.ID)
	assert.True(t, got.ActualSpent.IsZero())
	assert.Nil(t, event)
}

func TestAggregator_CheckNotification(t *testing.T) {
	now := testutil.Date(2024, time.December, 20)
	recent := now.Add(-2 * time.Hour)
	stale := now.Add(-25 * time.Hour)
	agg := NewAggregator(nil, nil, testutil.NewClock(now), AggregatorConfig{NotificationCooldown: 24 * time.Hour})

	tests := []struct {
		name     string
		enabled  bool
		status   entity.BudgetStatus
		spent    string
		lastSent *time.Time
		fires    bool
	}{
		{"below threshold", true, entity.BudgetStatusActive, "79", nil, false},
		{"at threshold", true, entity.BudgetStatusActive, "80", nil, true},
		{"disabled", false, entity.BudgetStatusActive, "95", nil, false},
		{"within cooldown", true, entity.BudgetStatusActive, "95", &recent, false},
		{"after cooldown", true, entity.BudgetStatusActive, "95", &stale, true},
		{"paused", true, entity.BudgetStatusPaused, "95", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := entity.NewBudget(uuid.New(), uuid.New(), dec("100"), entity.BudgetPeriodMonthly,
				testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31),
				entity.BudgetNotifications{Enabled: tt.enabled, ThresholdPercent: 80, LastSentAt: tt.lastSent},
				entity.BudgetRollover{})
			b.Status = tt.status
			b.ApplySpent(dec(tt.spent))

			event := agg.CheckNotification(b, now)
			if tt.fires {
				require.NotNil(t, event)
				assert.Equal(t, now, *b.Notifications.LastSentAt)
			} else {
				assert.Nil(t, event)
			}
		})
	}
}

func TestAggregator_Summary(t *testing.T) {
	f := newFixture(t)
	over := f.budget(t, "100", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))
	near := f.budget(t, "1000", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))
	f.budget(t, "300", testutil.Date(2024, time.November, 1), testutil.Date(2024, time.November, 30))

	over.ApplySpent(dec("150"))
	near.ApplySpent(dec("850"))
	require.NoError(t, f.budgets.UpdateDerived(f.ctx, over))
	require.NoError(t, f.budgets.UpdateDerived(f.ctx, near))

	summary, err := f.aggregator.Summary(f.ctx, f.userID, testutil.Date(2024, time.December, 15))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.BudgetCount)
	assert.True(t, dec("1100").Equal(summary.TotalBudgeted))
	assert.True(t, dec("1000").Equal(summary.TotalSpent))
	assert.True(t, dec("150").Equal(summary.TotalRemaining))
	assert.Equal(t, 1, summary.OverBudget)
	assert.Equal(t, 1, summary.NearLimit)
}

func TestCreateBudget(t *testing.T) {
	f := newFixture(t)
	f.expense(t, "40", testutil.Date(2024, time.December, 3))
	uc := NewCreateBudgetUseCase(f.budgets, f.categories, f.refresher)

	out, err := uc.Execute(f.ctx, CreateBudgetInput{
		UserID:     f.userID,
		CategoryID: f.food.ID,
		Amount:     dec("200"),
		Period:     entity.BudgetPeriodMonthly,
		StartDate:  testutil.Date(2024, time.December, 1),
	})
	require.NoError(t, err)
	b := out.Budget.Budget
	assert.Equal(t, testutil.Date(2024, time.December, 31), b.EndDate)
	assert.True(t, dec("40").Equal(b.ActualSpent))
	assert.Equal(t, entity.DefaultThresholdPercent, b.Notifications.ThresholdPercent)
	assert.Equal(t, "Food", out.Budget.Category.Name)

	badThreshold := 120
	end := testutil.Date(2024, time.November, 1)
	tests := []struct {
		name  string
		input CreateBudgetInput
		kind  domainerror.ErrorKind
	}{
		{"negative amount", CreateBudgetInput{UserID: f.userID, CategoryID: f.food.ID, Amount: dec("-1"), Period: entity.BudgetPeriodMonthly, StartDate: testutil.Date(2024, time.December, 1)}, domainerror.KindValidation},
		{"income category", CreateBudgetInput{UserID: f.userID, CategoryID: f.salary.ID, Amount: dec("1"), Period: entity.BudgetPeriodMonthly, StartDate: testutil.Date(2024, time.December, 1)}, domainerror.KindTypeMismatch},
		{"unknown category", CreateBudgetInput{UserID: f.userID, CategoryID: uuid.New(), Amount: dec("1"), Period: entity.BudgetPeriodMonthly, StartDate: testutil.Date(2024, time.December, 1)}, domainerror.KindReference},
		{"end before start", CreateBudgetInput{UserID: f.userID, CategoryID: f.food.ID, Amount: dec("1"), Period: entity.BudgetPeriodMonthly, StartDate: testutil.Date(2024, time.December, 1), EndDate: &end}, domainerror.KindValidation},
		{"threshold out of range", CreateBudgetInput{UserID: f.userID, CategoryID: f.food.ID, Amount: dec("1"), Period: entity.BudgetPeriodMonthly, StartDate: testutil.Date(2024, time.December, 1), Notifications: &NotificationSettingsInput{ThresholdPercent: &badThreshold}}, domainerror.KindValidation},
		{"bad period", CreateBudgetInput{UserID: f.userID, CategoryID: f.food.ID, Amount: dec("1"), Period: "hourly", StartDate: testutil.Date(2024, time.December, 1)}, domainerror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(f.ctx, tt.input)
			assert.Equal(t, tt.kind, domainerror.KindOf(err))
		})
	}
}

func TestUpdateAndDeleteBudget(t *testing.T) {
	f := newFixture(t)
	b := f.budget(t, "100", testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31))
	f.expense(t, "50", testutil.Date(2024, time.December, 2))

	amount := dec("400")
	out, err := NewUpdateBudgetUseCase(f.budgets, f.refresher).Execute(f.ctx, UpdateBudgetInput{
		BudgetID: b.ID, UserID: f.userID, Amount: &amount,
	})
	require.NoError(t, err)
	assert.True(t, dec("12.5").Equal(out.Budget.UtilizationRate))

	_, err = NewUpdateBudgetUseCase(f.budgets, f.refresher).Execute(f.ctx, UpdateBudgetInput{BudgetID: b.ID, UserID: uuid.New(), Amount: &amount})
	assert.Equal(t, domainerror.KindReference, domainerror.KindOf(err))

	del := NewDeleteBudgetUseCase(f.budgets)
	require.NoError(t, del.Execute(f.ctx, DeleteBudgetInput{BudgetID: b.ID, UserID: f.userID}))
	require.NoError(t, del.Execute(f.ctx, DeleteBudgetInput{BudgetID: b.ID, UserID: f.userID}))

	stored, err := f.budgets.FindByID(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BudgetStatusCancelled, stored.Status)

	_, err = NewUpdateBudgetUseCase(f.budgets, f.refresher).Execute(f.ctx, UpdateBudgetInput{BudgetID: b.ID, UserID: f.userID, Amount: &amount})
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))
}

func TestRenewBudget(t *testing.T) {
	f := newFixture(t)
	b := entity.NewBudget(f.userID, f.food.ID, dec("500"), entity.BudgetPeriodMonthly,
		testutil.Date(2024, time.December, 1), testutil.Date(2024, time.December, 31),
		entity.BudgetNotifications{Enabled: true, ThresholdPercent: 90},
		entity.BudgetRollover{Enabled: true, MaxRollover: dec("100")})
	require.NoError(t, f.budgets.Create(f.ctx, b))
	f.expense(t, "300", testutil.Date(2024, time.December, 10))

	uc := NewRenewBudgetUseCase(f.budgets, f.aggregator, f.refresher, f.clock)

	_, err := uc.Execute(f.ctx, RenewBudgetInput{BudgetID: b.ID, UserID: f.userID})
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err), "eleven days left is too early")

	f.clock.Set(testutil.Date(2024, time.December, 29))
	due, err := NewListRenewalsDueUseCase(f.budgets, f.aggregator, f.clock).Execute(f.ctx, ListRenewalsDueInput{})
	require.NoError(t, err)
	require.Len(t, due.Budgets, 1)

	out, err := uc.Execute(f.ctx, RenewBudgetInput{BudgetID: b.ID, UserID: f.userID})
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(out.Carried))
	assert.True(t, dec("600").Equal(out.Next.Amount))
	assert.Equal(t, testutil.Date(2025, time.January, 1), out.Next.StartDate)
	assert.Equal(t, testutil.Date(2025, time.January, 31), out.Next.EndDate)
	assert.Equal(t, 90, out.Next.Notifications.ThresholdPercent)
	assert.Equal(t, entity.BudgetStatusCompleted, out.Previous.Status)

	_, err = uc.Execute(f.ctx, RenewBudgetInput{BudgetID: b.ID, UserID: f.userID})
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))
}
