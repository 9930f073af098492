// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

// QueueBudgetAlertEmail queues a threshold or over-budget alert.
func (s *Service) QueueBudgetAlertEmail(ctx context.Context, input adapter.QueueBudgetAlertInput) error {
	templateType := entity.TemplateBudgetThreshold
	subject := fmt.Sprintf("%s budget reached %s%% - Finance Tracker", input.CategoryName, input.UtilizationRate)
	if input.OverBudget {
		templateType = entity.TemplateBudgetExceeded
		subject = fmt.Sprintf("%s budget exceeded - Finance Tracker", input.CategoryName)
	}

	templateData := map[string]interface{}{
		"user_name":         input.UserName,
		"category_name":     input.CategoryName,
		"amount":            input.Amount,
		"actual_spent":      input.ActualSpent,
		"utilization_rate":  input.UtilizationRate,
		"threshold_percent": fmt.Sprintf("%d", input.ThresholdPercent),
		"budget_url":        fmt.Sprintf("%s/budgets/%s", s.appBaseURL, input.BudgetID),
	}

	job := entity.NewEmailJob(
		templateType,
		input.BudgetID,
		input.UserEmail,
		input.UserName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue budget alert email",
			err,
		)
	}

	return nil
}

var _ adapter.EmailService = (*Service)(nil)
