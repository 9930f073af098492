package notification

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// LogNotifier writes threshold events to the structured log.
type LogNotifier struct{}

// NotifyBudgetThreshold logs the event.
func (LogNotifier) NotifyBudgetThreshold(ctx context.Context, event entity.BudgetThresholdEvent) error {
	slog.InfoContext(ctx, "Budget threshold crossed",
		"user_id", event.UserID,
		"budget_id", event.BudgetID,
		"utilization_rate", event.UtilizationRate.String(),
		"threshold_percent", event.ThresholdPercent,
		"over_budget", event.OverBudget,
	)
	return nil
}

var _ adapter.BudgetNotifier = LogNotifier{}
