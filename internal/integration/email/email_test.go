package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/testutil"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []adapter.SendEmailInput
	err  error
}

func (f *fakeSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, input)
	return &adapter.SendEmailResult{ProviderID: "re_123"}, nil
}

func alertInput(over bool) adapter.QueueBudgetAlertInput {
	return adapter.QueueBudgetAlertInput{
		BudgetID:         "b-1",
		UserEmail:        "ana@example.com",
		UserName:         "Ana",
		CategoryName:     "Food",
		Amount:           "500",
		ActualSpent:      "410",
		UtilizationRate:  "82",
		ThresholdPercent: 80,
		OverBudget:       over,
	}
}

func newWorker(t *testing.T, sender adapter.EmailSender) (*Worker, *Service, adapter.EmailQueueRepository) {
	t.Helper()

	queue := persistence.NewEmailQueueRepository(testutil.NewDB(t))
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)

	worker := NewWorker(queue, sender, renderer, DefaultWorkerConfig())
	return worker, NewService(queue, "https://app.example.com/"), queue
}

func TestService_QueueBudgetAlertEmail(t *testing.T) {
	ctx := context.Background()
	_, svc, queue := newWorker(t, &fakeSender{})

	require.NoError(t, svc.QueueBudgetAlertEmail(ctx, alertInput(false)))
	require.NoError(t, svc.QueueBudgetAlertEmail(ctx, alertInput(true)))

	jobs, err := queue.FindByReference(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	templatesSeen := map[entity.EmailTemplateType]bool{}
	for _, job := range jobs {
		templatesSeen[job.TemplateType] = true
		assert.Equal(t, entity.EmailStatusPending, job.Status)
		assert.Equal(t, "https://app.example.com/budgets/b-1", job.TemplateData["budget_url"])
	}
	assert.True(t, templatesSeen[entity.TemplateBudgetThreshold])
	assert.True(t, templatesSeen[entity.TemplateBudgetExceeded])
}

func TestWorker_SendsQueuedAlert(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	worker, svc, queue := newWorker(t, sender)

	require.NoError(t, svc.QueueBudgetAlertEmail(ctx, alertInput(false)))
	worker.ProcessNow(ctx)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].HTML, "82%")
	assert.Contains(t, sender.sent[0].Text, "Food budget is at 82%")

	jobs, err := queue.FindByReference(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.EmailStatusSent, jobs[0].Status)
	assert.Equal(t, "re_123", jobs[0].ProviderID)
}

func TestWorker_TemporaryFailureIsRetried(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{err: domainerror.NewEmailError(
		domainerror.ErrCodeTemporaryEmailFailure, "temporary email failure", errors.New("429"),
	)}
	worker, svc, queue := newWorker(t, sender)

	require.NoError(t, svc.QueueBudgetAlertEmail(ctx, alertInput(true)))
	worker.ProcessNow(ctx)

	jobs, err := queue.FindByReference(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.EmailStatusPending, jobs[0].Status)
	assert.Equal(t, 1, jobs[0].Attempts)
	assert.True(t, jobs[0].ScheduledAt.After(time.Now().UTC()))

	// Not due yet.
	worker.ProcessNow(ctx)
	jobs, err = queue.FindByReference(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, 1, jobs[0].Attempts)
}

func TestWorker_PermanentFailureStops(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{err: domainerror.NewEmailError(
		domainerror.ErrCodePermanentEmailFailure, "permanent email failure", errors.New("422 validation"),
	)}
	worker, svc, queue := newWorker(t, sender)

	require.NoError(t, svc.QueueBudgetAlertEmail(ctx, alertInput(false)))
	worker.ProcessNow(ctx)

	jobs, err := queue.FindByReference(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.EmailStatusFailed, jobs[0].Status)
	assert.Contains(t, jobs[0].LastError, "422")
}

func TestWorker_UnknownTemplateFails(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	worker, _, queue := newWorker(t, sender)

	job := entity.NewEmailJob("password_reset", "x", "ana@example.com", "Ana", "hi", nil)
	require.NoError(t, queue.Create(ctx, job))
	worker.ProcessNow(ctx)

	assert.Empty(t, sender.sent)
	jobs, err := queue.FindByReference(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, entity.EmailStatusFailed, jobs[0].Status)
}

func TestWorker_PurgeSent(t *testing.T) {
	ctx := context.Background()
	worker, svc, queue := newWorker(t, &fakeSender{})

	require.NoError(t, svc.QueueBudgetAlertEmail(ctx, alertInput(false)))
	worker.ProcessNow(ctx)

	worker.now = func() time.Time { return time.Now().UTC().Add(31 * 24 * time.Hour) }
	worker.purgeSent(ctx)

	jobs, err := queue.FindByReference(ctx, "b-1")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("422 Unprocessable: invalid to address"), true},
		{errors.New("401 unauthorized"), true},
		{errors.New("429 too many requests"), false},
		{errors.New("502 bad gateway"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isPermanentError(tt.err), "%v", tt.err)
	}
}
