package transaction

import (
	"context"
	"sync"
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
	observer     *testutil.Observer
	categories   adapter.CategoryRepository
	transactions adapter.TransactionRepository
	factory      *EntryFactory
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
		observer:     &testutil.Observer{},
		categories:   persistence.NewCategoryRepository(db),
		transactions: persistence.NewTransactionRepository(db),
		userID:       uuid.New(),
	}
	f.factory = NewEntryFactory(f.categories, f.clock)

	f.food = entity.NewCategory("Food", "#22C55E", "utensils", f.userID, entity.CategoryTypeExpense, nil)
	f.salary = entity.NewCategory("Salary", "#3B82F6", "briefcase", f.userID, entity.CategoryTypeIncome, nil)
	require.NoError(t, f.categories.Create(f.ctx, f.food))
	require.NoError(t, f.categories.Create(f.ctx, f.salary))
	return f
}

func (f *fixture) expense(amount string, date time.Time) EntryInput {
	return EntryInput{
		Type:            entity.TransactionTypeExpense,
		Amount:          decimal.RequireFromString(amount),
		CategoryID:      f.food.ID,
		Description:     "Groceries",
		TransactionDate: date,
	}
}

func (f *fixture) create(t *testing.T, entry EntryInput) *TransactionOutput {
	t.Helper()
	uc := NewCreateTransactionUseCase(f.transactions, f.factory, f.observer)
	out, err := uc.Execute(f.ctx, CreateTransactionInput{UserID: f.userID, Entry: entry})
	require.NoError(t, err)
	return out.Transaction
}

func (f *fixture) countRows(t *testing.T) int64 {
	t.Helper()
	total, err := f.transactions.CountByCategory(f.ctx, f.food.ID, nil)
	require.NoError(t, err)
	return total
}

func TestCreateTransaction(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, f.expense("850", testutil.Date(2024, time.December, 5)))

	assert.Equal(t, entity.TransactionStatusActive, out.Status)
	assert.Equal(t, entity.PaymentMethodOther, out.PaymentMethod)
	require.NotNil(t, out.Category)
	assert.Equal(t, "Food", out.Category.Name)
	assert.Equal(t, []entity.LedgerTouch{{
		UserID:          f.userID,
		CategoryID:      f.food.ID,
		TransactionDate: testutil.Date(2024, time.December, 5),
	}}, f.observer.Last())
}

func TestCreateTransaction_Rejections(t *testing.T) {
	f := newFixture(t)
	foreign := entity.NewCategory("Theirs", "#000000", "tag", uuid.New(), entity.CategoryTypeExpense, nil)
	require.NoError(t, f.categories.Create(f.ctx, foreign))

	tests := []struct {
		name   string
		mutate func(*EntryInput)
		kind   domainerror.ErrorKind
		code   domainerror.TransactionErrorCode
	}{
		{"income category on expense", func(e *EntryInput) { e.CategoryID = f.salary.ID }, domainerror.KindTypeMismatch, domainerror.ErrCodeInvalidCategoryType},
		{"zero amount", func(e *EntryInput) { e.Amount = decimal.Zero }, domainerror.KindValidation, domainerror.ErrCodeInvalidAmount},
		{"negative amount", func(e *EntryInput) { e.Amount = decimal.NewFromInt(-5) }, domainerror.KindValidation, domainerror.ErrCodeInvalidAmount},
		{"sub-cent amount", func(e *EntryInput) { e.Amount = decimal.RequireFromString("1.005") }, domainerror.KindValidation, domainerror.ErrCodeInvalidAmount},
		{"future date", func(e *EntryInput) { e.TransactionDate = testutil.Date(2024, time.December, 21) }, domainerror.KindValidation, domainerror.ErrCodeFutureDate},
		{"missing date", func(e *EntryInput) { e.TransactionDate = time.Time{} }, domainerror.KindValidation, domainerror.ErrCodeMissingDate},
		{"unknown category", func(e *EntryInput) { e.CategoryID = uuid.New() }, domainerror.KindReference, domainerror.ErrCodeCategoryNotFound},
		{"other user's category", func(e *EntryInput) { e.CategoryID = foreign.ID }, domainerror.KindReference, domainerror.ErrCodeCategoryNotFound},
		{"blank description", func(e *EntryInput) { e.Description = "   " }, domainerror.KindValidation, domainerror.ErrCodeMissingDescription},
		{"bad payment method", func(e *EntryInput) { e.PaymentMethod = "cheque" }, domainerror.KindValidation, domainerror.ErrCodeInvalidPaymentMethod},
		{"long tag", func(e *EntryInput) { e.Tags = []string{"abcdefghijklmnopqrstuvwxyz"} }, domainerror.KindValidation, domainerror.ErrCodeInvalidTags},
		{"recurring without settings", func(e *EntryInput) { e.IsRecurring = true }, domainerror.KindValidation, domainerror.ErrCodeInvalidRecurring},
		{"bad type", func(e *EntryInput) { e.Type = "transfer" }, domainerror.KindValidation, domainerror.ErrCodeInvalidTransactionType},
	}

	uc := NewCreateTransactionUseCase(f.transactions, f.factory, f.observer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := f.expense("10", testutil.Date(2024, time.December, 1))
			tt.mutate(&entry)

			out, err := uc.Execute(f.ctx, CreateTransactionInput{UserID: f.userID, Entry: entry})

			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.kind, domainerror.KindOf(err))

			var txnErr *domainerror.TransactionError
			require.ErrorAs(t, err, &txnErr)
			assert.Equal(t, tt.code, txnErr.Code)
		})
	}

	assert.Zero(t, f.countRows(t), "rejected entries must not be stored")
	assert.Empty(t, f.observer.Calls)
}

func TestCreateTransaction_NormalizesTagsAndRecurring(t *testing.T) {
	f := newFixture(t)
	entry := f.expense("12.50", testutil.Date(2024, time.December, 1))
	entry.Tags = []string{" home ", "home", "", "weekly"}
	entry.IsRecurring = true
	entry.RecurringSettings = &entity.RecurringSettings{Frequency: entity.RecurringWeekly, Interval: 1}

	out := f.create(t, entry)

	assert.Equal(t, []string{"home", "weekly"}, out.Tags)
	assert.True(t, out.IsRecurring)
	require.NotNil(t, out.RecurringSettings)
	assert.Equal(t, entity.RecurringWeekly, out.RecurringSettings.Frequency)
}

func TestUpdateTransaction_ReportsOldAndNewKeys(t *testing.T) {
	f := newFixture(t)
	groceries := entity.NewCategory("Groceries", "#000000", "cart", f.userID, entity.CategoryTypeExpense, nil)
	require.NoError(t, f.categories.Create(f.ctx, groceries))
	created := f.create(t, f.expense("40", testutil.Date(2024, time.November, 30)))

	newDate := testutil.Date(2024, time.December, 2)
	uc := NewUpdateTransactionUseCase(f.transactions, f.factory, f.observer)
	out, err := uc.Execute(f.ctx, UpdateTransactionInput{
		TransactionID:   created.ID,
		UserID:          f.userID,
		CategoryID:      &groceries.ID,
		TransactionDate: &newDate,
	})
	require.NoError(t, err)

	assert.Equal(t, groceries.ID, out.Transaction.CategoryID)
	assert.Equal(t, []entity.LedgerTouch{
		{UserID: f.userID, CategoryID: f.food.ID, TransactionDate: testutil.Date(2024, time.November, 30)},
		{UserID: f.userID, CategoryID: groceries.ID, TransactionDate: newDate},
	}, f.observer.Last())
}

func TestUpdateTransaction_CosmeticEditSkipsRecompute(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.expense("40", testutil.Date(2024, time.December, 2)))
	calls := len(f.observer.Calls)

	description := "Farmers market"
	uc := NewUpdateTransactionUseCase(f.transactions, f.factory, f.observer)
	_, err := uc.Execute(f.ctx, UpdateTransactionInput{TransactionID: created.ID, UserID: f.userID, Description: &description})
	require.NoError(t, err)

	assert.Len(t, f.observer.Calls, calls)
}

func TestUpdateTransaction_TypeMismatchOnCategoryChange(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.expense("40", testutil.Date(2024, time.December, 2)))

	uc := NewUpdateTransactionUseCase(f.transactions, f.factory, f.observer)
	_, err := uc.Execute(f.ctx, UpdateTransactionInput{TransactionID: created.ID, UserID: f.userID, CategoryID: &f.salary.ID})

	assert.Equal(t, domainerror.KindTypeMismatch, domainerror.KindOf(err))

	stored, err := f.transactions.FindByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, f.food.ID, stored.CategoryID)
}

func TestLifecycle_DeleteAndArchive(t *testing.T) {
	f := newFixture(t)
	deleteUC := NewDeleteTransactionUseCase(f.transactions, f.clock, f.observer)
	archiveUC := NewArchiveTransactionUseCase(f.transactions, f.clock, f.observer)
	updateUC := NewUpdateTransactionUseCase(f.transactions, f.factory, f.observer)
	getUC := NewGetTransactionUseCase(f.transactions, f.categories)

	deleted := f.create(t, f.expense("10", testutil.Date(2024, time.December, 1)))
	archived := f.create(t, f.expense("20", testutil.Date(2024, time.December, 1)))

	require.NoError(t, deleteUC.Execute(f.ctx, DeleteTransactionInput{TransactionID: deleted.ID, UserID: f.userID}))
	require.NoError(t, deleteUC.Execute(f.ctx, DeleteTransactionInput{TransactionID: deleted.ID, UserID: f.userID}), "second delete is a no-op")

	got, err := getUC.Execute(f.ctx, GetTransactionInput{TransactionID: deleted.ID, UserID: f.userID})
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusDeleted, got.Transaction.Status)
	assert.NotNil(t, got.Transaction.DeletedAt)

	amount := decimal.NewFromInt(99)
	_, err = updateUC.Execute(f.ctx, UpdateTransactionInput{TransactionID: deleted.ID, UserID: f.userID, Amount: &amount})
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))

	require.NoError(t, archiveUC.Execute(f.ctx, ArchiveTransactionInput{TransactionID: archived.ID, UserID: f.userID}))
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(
		deleteUC.Execute(f.ctx, DeleteTransactionInput{TransactionID: archived.ID, UserID: f.userID})))
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(
		archiveUC.Execute(f.ctx, ArchiveTransactionInput{TransactionID: archived.ID, UserID: f.userID})))

	_, err = getUC.Execute(f.ctx, GetTransactionInput{TransactionID: archived.ID, UserID: uuid.New()})
	assert.Equal(t, domainerror.KindReference, domainerror.KindOf(err))
}

// interleavedRepository runs between once, right after the first FindByID,
// to simulate a competing writer landing inside a read-modify-write.
type interleavedRepository struct {
	adapter.TransactionRepository
	once    sync.Once
	between func()
}

func (r *interleavedRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	found, err := r.TransactionRepository.FindByID(ctx, id)
	r.once.Do(r.between)
	return found, err
}

func TestUpdateTransaction_DoesNotReviveConcurrentDelete(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, f.expense("40", testutil.Date(2024, time.December, 2)))
	deleteUC := NewDeleteTransactionUseCase(f.transactions, f.clock, f.observer)

	racing := &interleavedRepository{TransactionRepository: f.transactions, between: func() {
		require.NoError(t, deleteUC.Execute(f.ctx, DeleteTransactionInput{TransactionID: created.ID, UserID: f.userID}))
	}}
	description := "Farmers market"
	uc := NewUpdateTransactionUseCase(racing, f.factory, f.observer)
	out, err := uc.Execute(f.ctx, UpdateTransactionInput{TransactionID: created.ID, UserID: f.userID, Description: &description})

	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))
	assert.Contains(t, err.Error(), "transaction is deleted")

	stored, err := f.transactions.FindByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusDeleted, stored.Status)
	assert.NotNil(t, stored.DeletedAt)
	assert.Equal(t, "Groceries", stored.Description)
}

func TestLifecycle_ConcurrentTransitions(t *testing.T) {
	f := newFixture(t)
	deleteUC := NewDeleteTransactionUseCase(f.transactions, f.clock, f.observer)
	archiveUC := NewArchiveTransactionUseCase(f.transactions, f.clock, f.observer)

	t.Run("delete racing delete is a no-op", func(t *testing.T) {
		created := f.create(t, f.expense("10", testutil.Date(2024, time.December, 1)))
		racing := &interleavedRepository{TransactionRepository: f.transactions, between: func() {
			require.NoError(t, deleteUC.Execute(f.ctx, DeleteTransactionInput{TransactionID: created.ID, UserID: f.userID}))
		}}

		err := NewDeleteTransactionUseCase(racing, f.clock, f.observer).
			Execute(f.ctx, DeleteTransactionInput{TransactionID: created.ID, UserID: f.userID})
		require.NoError(t, err)
	})

	t.Run("archive loses to delete", func(t *testing.T) {
		created := f.create(t, f.expense("20", testutil.Date(2024, time.December, 1)))
		racing := &interleavedRepository{TransactionRepository: f.transactions, between: func() {
			require.NoError(t, deleteUC.Execute(f.ctx, DeleteTransactionInput{TransactionID: created.ID, UserID: f.userID}))
		}}

		err := NewArchiveTransactionUseCase(racing, f.clock, f.observer).
			Execute(f.ctx, ArchiveTransactionInput{TransactionID: created.ID, UserID: f.userID})
		assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))

		stored, err := f.transactions.FindByID(f.ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TransactionStatusDeleted, stored.Status)
	})

	t.Run("delete loses to archive", func(t *testing.T) {
		created := f.create(t, f.expense("30", testutil.Date(2024, time.December, 1)))
		racing := &interleavedRepository{TransactionRepository: f.transactions, between: func() {
			require.NoError(t, archiveUC.Execute(f.ctx, ArchiveTransactionInput{TransactionID: created.ID, UserID: f.userID}))
		}}

		err := NewDeleteTransactionUseCase(racing, f.clock, f.observer).
			Execute(f.ctx, DeleteTransactionInput{TransactionID: created.ID, UserID: f.userID})
		assert.Equal(t, domainerror.KindConflict, domainerror.KindOf(err))

		stored, err := f.transactions.FindByID(f.ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TransactionStatusArchived, stored.Status)
	})
}

func TestImportTransactions_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	uc := NewImportTransactionsUseCase(f.transactions, f.factory, f.observer)

	bad := f.expense("5", testutil.Date(2024, time.December, 3))
	bad.CategoryID = f.salary.ID
	_, err := uc.Execute(f.ctx, ImportTransactionsInput{
		UserID:  f.userID,
		Entries: []EntryInput{f.expense("5", testutil.Date(2024, time.December, 3)), bad},
	})
	assert.Equal(t, domainerror.KindTypeMismatch, domainerror.KindOf(err))
	assert.Zero(t, f.countRows(t))

	out, err := uc.Execute(f.ctx, ImportTransactionsInput{
		UserID: f.userID,
		Entries: []EntryInput{
			f.expense("5", testutil.Date(2024, time.December, 3)),
			f.expense("6", testutil.Date(2024, time.December, 4)),
		},
	})
	require.NoError(t, err)
	assert.Len(t, out.Transactions, 2)
	assert.Equal(t, int64(2), f.countRows(t))
	assert.Len(t, f.observer.Calls, 1)
	assert.Len(t, f.observer.Last(), 2)

	_, err = uc.Execute(f.ctx, ImportTransactionsInput{UserID: f.userID})
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
}

func TestListTransactions_DefaultsAndFilters(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.expense("10", testutil.Date(2024, time.December, 1)))
	latest := f.create(t, f.expense("20", testutil.Date(2024, time.December, 10)))
	income := f.create(t, EntryInput{
		Type: entity.TransactionTypeIncome, Amount: decimal.NewFromInt(3000), CategoryID: f.salary.ID,
		Description: "Payroll", TransactionDate: testutil.Date(2024, time.December, 5), PaymentMethod: entity.PaymentMethodBankTransfer,
	})

	uc := NewListTransactionsUseCase(f.transactions)

	all, err := uc.Execute(f.ctx, ListTransactionsInput{UserID: f.userID, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, all.Pagination.Limit)
	require.Len(t, all.Transactions, 3)
	assert.Equal(t, latest.ID, all.Transactions[0].ID)

	method := entity.PaymentMethodBankTransfer
	byMethod, err := uc.Execute(f.ctx, ListTransactionsInput{UserID: f.userID, PaymentMethod: &method})
	require.NoError(t, err)
	require.Len(t, byMethod.Transactions, 1)
	assert.Equal(t, income.ID, byMethod.Transactions[0].ID)
}
