package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
)

func renewalsCmd() *cobra.Command {
	var (
		userFlag string
		renew    bool
	)

	cmd := &cobra.Command{
		Use:   "renewals",
		Short: "List budgets close to the end of their window",
		Long: `List active budgets that end within the renewal window. With --renew each
listed budget is closed and its next period is opened.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			input := budget.ListRenewalsDueInput{}
			if userFlag != "" {
				userID, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("invalid user id %q: %w", userFlag, err)
				}
				input.UserID = &userID
			}

			out, err := a.injector.RenewalsDue.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			renewed := 0
			for _, b := range out.Budgets {
				slog.Info("Budget due for renewal",
					"budget_id", b.ID,
					"user_id", b.UserID,
					"period", b.Period,
					"end_date", b.EndDate.Format("2006-01-02"),
					"utilization_rate", b.UtilizationRate.String(),
				)
				if !renew {
					continue
				}

				res, err := a.injector.RenewBudget.Execute(cmd.Context(), budget.RenewBudgetInput{
					BudgetID: b.ID,
					UserID:   b.UserID,
				})
				if err != nil {
					slog.Error("Failed to renew budget", "budget_id", b.ID, "error", err)
					continue
				}
				renewed++
				slog.Info("Budget renewed",
					"budget_id", b.ID,
					"next_budget_id", res.Next.ID,
					"carried", res.Carried.String(),
				)
			}

			slog.Info("Renewal scan finished", "due", len(out.Budgets), "renewed", renewed)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "only scan this user id")
	cmd.Flags().BoolVar(&renew, "renew", false, "renew every budget that is due")
	return cmd
}
