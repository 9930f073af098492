// Package consistency keeps budgets and user statistics in step with the ledger.
package consistency

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/statistics"
)

// ReconcileReport summarizes a reconciliation pass.
type ReconcileReport struct {
	Users    int
	Budgets  int
	Failures int
}

// ReconcileUser recomputes every budget and the statistics of one user, clearing
// whatever the backlog held for them. Failed targets go back into the backlog.
func (c *Coordinator) ReconcileUser(ctx context.Context, userID uuid.UUID) (*ReconcileReport, error) {
	report := &ReconcileReport{Users: 1}

	if _, err := c.backlog.Take(ctx, userID); err != nil {
		slog.Warn("Failed to read recompute backlog", "user_id", userID, "error", err)
	}

	budgets, err := c.budgetRepo.FindByUser(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	for _, b := range budgets {
		report.Budgets++
		if _, err := c.recomputeBudget(ctx, b.ID); err != nil {
			report.Failures++
			c.park(ctx, userID, budget.RecomputeKey(b.ID), err)
		}
	}

	if err := c.recomputeUserStats(ctx, userID); err != nil {
		report.Failures++
		c.park(ctx, userID, statistics.RecomputeKey(userID), err)
	}
	return report, nil
}

// ReconcileAll runs ReconcileUser for every user with budgets, transactions or a
// pending backlog, a bounded number of users at a time.
func (c *Coordinator) ReconcileAll(ctx context.Context) (*ReconcileReport, error) {
	users, err := c.reconcileUsers(ctx)
	if err != nil {
		return nil, err
	}

	var budgets, failures atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.ReconcileConcurrency)

	for _, userID := range users {
		userID := userID
		g.Go(func() error {
			report, err := c.ReconcileUser(gctx, userID)
			if err != nil {
				return fmt.Errorf("user %s: %w", userID, err)
			}
			budgets.Add(int64(report.Budgets))
			failures.Add(int64(report.Failures))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		Users:    len(users),
		Budgets:  int(budgets.Load()),
		Failures: int(failures.Load()),
	}
	slog.Info("Reconciliation finished", "users", report.Users, "budgets", report.Budgets, "failures", report.Failures)
	return report, nil
}

func (c *Coordinator) reconcileUsers(ctx context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	users := make([]uuid.UUID, 0)
	add := func(ids []uuid.UUID) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			users = append(users, id)
		}
	}

	fromBudgets, err := c.budgetRepo.FindUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget owners: %w", err)
	}
	add(fromBudgets)

	fromLedger, err := c.transactionRepo.FindUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger owners: %w", err)
	}
	add(fromLedger)

	fromBacklog, err := c.backlog.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backlog users: %w", err)
	}
	add(fromBacklog)

	return users, nil
}
