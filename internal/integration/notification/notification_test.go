package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/integration/email"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
	"github.com/finance-tracker/ledger/internal/testutil"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func thresholdEvent(userID, categoryID uuid.UUID) entity.BudgetThresholdEvent {
	return entity.BudgetThresholdEvent{
		UserID:           userID,
		BudgetID:         uuid.New(),
		CategoryID:       categoryID,
		UtilizationRate:  decimal.NewFromInt(82),
		ThresholdPercent: 80,
		ActualSpent:      decimal.NewFromInt(410),
		Amount:           decimal.NewFromInt(500),
		OccurredAt:       time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestAMQPPublisher_PublishesJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(ch, "ledger.events", "budget.threshold")

	event := thresholdEvent(uuid.New(), uuid.New())
	require.NoError(t, p.NotifyBudgetThreshold(context.Background(), event))

	assert.Equal(t, "ledger.events", ch.exchange)
	assert.Equal(t, "budget.threshold", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, ch.msg.DeliveryMode)

	msg, err := BudgetThresholdMessageFromJSON(ch.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, event.BudgetID.String(), msg.BudgetID)
	assert.Equal(t, "410.00", msg.ActualSpent)
	assert.Equal(t, "82", msg.UtilizationRate)
	assert.False(t, msg.OverBudget)
}

func TestAMQPPublisher_ReturnsPublishError(t *testing.T) {
	p := newAMQPPublisher(&fakeChannel{err: errors.New("channel closed")}, "x", "y")

	err := p.NotifyBudgetThreshold(context.Background(), thresholdEvent(uuid.New(), uuid.New()))
	assert.ErrorContains(t, err, "channel closed")
}

func TestBudgetThresholdMessageFromJSON_RejectsOtherTypes(t *testing.T) {
	_, err := BudgetThresholdMessageFromJSON([]byte(`{"type":"expense.sync"}`))
	assert.Error(t, err)
}

func TestEmailNotifier(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	queue := persistence.NewEmailQueueRepository(db)
	categories := persistence.NewCategoryRepository(db)

	notifier := NewEmailNotifier(
		persistence.NewUserRepository(db),
		categories,
		email.NewService(queue, "https://app.example.com"),
	)

	food := entity.NewDefaultCategory("Food", "#F97316", "utensils", entity.CategoryTypeExpense)
	require.NoError(t, categories.Create(ctx, food))

	newUser := func(alerts bool) uuid.UUID {
		now := time.Now().UTC()
		u := &entity.User{
			ID:                 uuid.New(),
			Email:              uuid.NewString() + "@example.com",
			Name:               "Ana",
			EmailNotifications: true,
			BudgetAlerts:       alerts,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		require.NoError(t, db.Create(model.UserFromEntity(u)).Error)
		return u.ID
	}

	t.Run("queues email for opted-in user", func(t *testing.T) {
		event := thresholdEvent(newUser(true), food.ID)
		require.NoError(t, notifier.NotifyBudgetThreshold(ctx, event))

		jobs, err := queue.FindByReference(ctx, event.BudgetID.String())
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, entity.TemplateBudgetThreshold, jobs[0].TemplateType)
		assert.Equal(t, "Food", jobs[0].TemplateData["category_name"])
	})

	t.Run("over budget uses exceeded template", func(t *testing.T) {
		event := thresholdEvent(newUser(true), food.ID)
		event.OverBudget = true
		require.NoError(t, notifier.NotifyBudgetThreshold(ctx, event))

		jobs, err := queue.FindByReference(ctx, event.BudgetID.String())
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, entity.TemplateBudgetExceeded, jobs[0].TemplateType)
	})

	t.Run("skips opted-out user", func(t *testing.T) {
		event := thresholdEvent(newUser(false), food.ID)
		require.NoError(t, notifier.NotifyBudgetThreshold(ctx, event))

		jobs, err := queue.FindByReference(ctx, event.BudgetID.String())
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("unknown user fails", func(t *testing.T) {
		err := notifier.NotifyBudgetThreshold(ctx, thresholdEvent(uuid.New(), food.ID))
		assert.Error(t, err)
	})
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.NotifyBudgetThreshold(context.Background(), thresholdEvent(uuid.New(), uuid.New())))
}
