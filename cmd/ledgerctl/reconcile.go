package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/internal/application/usecase/consistency"
)

func reconcileCmd() *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute derived budget and statistics data",
		Long: `Recompute every budget and user statistics record from the ledger and
drain the recompute backlog. Without --user every user is reconciled.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			var report *consistency.ReconcileReport
			if userFlag != "" {
				userID, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("invalid user id %q: %w", userFlag, err)
				}
				report, err = a.injector.Coordinator.ReconcileUser(cmd.Context(), userID)
				if err != nil {
					return err
				}
			} else {
				report, err = a.injector.Coordinator.ReconcileAll(cmd.Context())
				if err != nil {
					return err
				}
			}

			slog.Info("Reconciliation finished",
				"users", report.Users,
				"budgets", report.Budgets,
				"failures", report.Failures,
			)
			if report.Failures > 0 {
				return fmt.Errorf("%d recompute targets failed and were parked for retry", report.Failures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "reconcile a single user id")
	return cmd
}
