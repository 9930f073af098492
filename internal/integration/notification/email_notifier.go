package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// EmailNotifier turns threshold events into queued alert emails for users
// who opted into budget alerts.
type EmailNotifier struct {
	userRepo     adapter.UserRepository
	categoryRepo adapter.CategoryRepository
	emailService adapter.EmailService
}

// NewEmailNotifier creates a new EmailNotifier.
func NewEmailNotifier(
	userRepo adapter.UserRepository,
	categoryRepo adapter.CategoryRepository,
	emailService adapter.EmailService,
) *EmailNotifier {
	return &EmailNotifier{
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		emailService: emailService,
	}
}

// NotifyBudgetThreshold queues an alert email for the budget owner.
func (n *EmailNotifier) NotifyBudgetThreshold(ctx context.Context, event entity.BudgetThresholdEvent) error {
	user, err := n.userRepo.FindByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("load budget owner: %w", err)
	}

	if !user.WantsBudgetAlerts() {
		slog.DebugContext(ctx, "Budget alert skipped, user opted out",
			"user_id", user.ID,
			"budget_id", event.BudgetID,
		)
		return nil
	}

	categoryName := "Budget"
	if category, err := n.categoryRepo.FindByID(ctx, event.CategoryID); err == nil {
		categoryName = category.Name
	}

	return n.emailService.QueueBudgetAlertEmail(ctx, adapter.QueueBudgetAlertInput{
		BudgetID:         event.BudgetID.String(),
		UserEmail:        user.Email,
		UserName:         user.Name,
		CategoryName:     categoryName,
		Amount:           event.Amount.StringFixed(2),
		ActualSpent:      event.ActualSpent.StringFixed(2),
		UtilizationRate:  event.UtilizationRate.String(),
		ThresholdPercent: event.ThresholdPercent,
		OverBudget:       event.OverBudget,
	})
}

var _ adapter.BudgetNotifier = (*EmailNotifier)(nil)
