// Package consistency keeps budgets and user statistics in step with the ledger.
package consistency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/statistics"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// userBudgetsPrefix marks a backlog target that recomputes every budget of a user.
// It is recorded when the affected budgets themselves could not be looked up.
const userBudgetsPrefix = "user-budgets:"

// Config holds the coordinator tunables.
type Config struct {
	RecomputeTimeout     time.Duration
	ReconcileConcurrency int
}

// Coordinator runs the recomputes that follow a committed ledger write.
// Each budget and each user's statistics are recomputed under their own lock key,
// so two recomputes of the same target never interleave.
type Coordinator struct {
	aggregator      *budget.Aggregator
	rollup          *statistics.Rollup
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	locker          adapter.KeyLocker
	backlog         adapter.RecomputeBacklog
	notifier        adapter.BudgetNotifier
	cfg             Config
}

// NewCoordinator creates a new Coordinator instance.
func NewCoordinator(
	aggregator *budget.Aggregator,
	rollup *statistics.Rollup,
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
	locker adapter.KeyLocker,
	backlog adapter.RecomputeBacklog,
	notifier adapter.BudgetNotifier,
	cfg Config,
) *Coordinator {
	if cfg.ReconcileConcurrency < 1 {
		cfg.ReconcileConcurrency = 1
	}
	return &Coordinator{
		aggregator:      aggregator,
		rollup:          rollup,
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		locker:          locker,
		backlog:         backlog,
		notifier:        notifier,
		cfg:             cfg,
	}
}

// LedgerChanged recomputes everything the touches may have affected.
// It runs after the ledger write committed and never reports failure to the writer:
// failed targets are logged and parked in the backlog for the next write of the same user.
func (c *Coordinator) LedgerChanged(ctx context.Context, touches ...entity.LedgerTouch) {
	// The request may finish before the recompute does.
	ctx = context.WithoutCancel(ctx)

	for _, group := range groupByUser(touches) {
		c.settleUser(ctx, group.userID, group.touches)
	}
}

// RefreshBudget recomputes one budget under its lock and dispatches any threshold event.
func (c *Coordinator) RefreshBudget(ctx context.Context, budgetID uuid.UUID) (*entity.Budget, error) {
	return c.recomputeBudget(context.WithoutCancel(ctx), budgetID)
}

type userTouches struct {
	userID  uuid.UUID
	touches []entity.LedgerTouch
}

// groupByUser drops duplicate (user, category, day) tuples and keeps first-seen order.
func groupByUser(touches []entity.LedgerTouch) []userTouches {
	type tupleKey struct {
		user     uuid.UUID
		category uuid.UUID
		day      time.Time
	}
	seen := make(map[tupleKey]struct{}, len(touches))
	index := make(map[uuid.UUID]int)
	groups := make([]userTouches, 0)

	for _, t := range touches {
		k := tupleKey{t.UserID, t.CategoryID, entity.TruncateDay(t.TransactionDate)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		i, ok := index[t.UserID]
		if !ok {
			groups = append(groups, userTouches{userID: t.UserID})
			i = len(groups) - 1
			index[t.UserID] = i
		}
		groups[i].touches = append(groups[i].touches, t)
	}
	return groups
}

// settleUser drains the user's backlog, then recomputes the affected budgets and the
// user's statistics once.
func (c *Coordinator) settleUser(ctx context.Context, userID uuid.UUID, touches []entity.LedgerTouch) {
	targets := newTargetSet()

	pending, err := c.backlog.Take(ctx, userID)
	if err != nil {
		slog.Warn("Failed to read recompute backlog", "user_id", userID, "error", err)
	}
	for _, t := range pending {
		targets.add(t)
	}

	for _, touch := range touches {
		affected, err := c.findAffected(ctx, touch)
		if err != nil {
			slog.Error("Failed to find affected budgets", "user_id", userID, "category_id", touch.CategoryID, "error", err)
			targets.add(userBudgetsPrefix + userID.String())
			continue
		}
		for _, b := range affected {
			targets.add(budget.RecomputeKey(b.ID))
		}
	}
	targets.add(statistics.RecomputeKey(userID))

	for _, target := range targets.items {
		if err := c.runTarget(ctx, userID, target); err != nil {
			c.park(ctx, userID, target, err)
		}
	}
}

func (c *Coordinator) findAffected(ctx context.Context, touch entity.LedgerTouch) ([]*entity.Budget, error) {
	tctx, cancel := context.WithTimeout(ctx, c.cfg.RecomputeTimeout)
	defer cancel()
	return c.aggregator.FindAffectedBudgets(tctx, touch.UserID, touch.CategoryID, touch.TransactionDate)
}

// runTarget dispatches a recompute key to its owner.
func (c *Coordinator) runTarget(ctx context.Context, userID uuid.UUID, target string) error {
	kind, raw, ok := strings.Cut(target, ":")
	if !ok {
		slog.Warn("Dropping malformed recompute target", "target", target)
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		slog.Warn("Dropping malformed recompute target", "target", target)
		return nil
	}

	switch kind + ":" {
	case "budget:":
		_, err := c.recomputeBudget(ctx, id)
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil
		}
		return err
	case "user-stats:":
		return c.recomputeUserStats(ctx, id)
	case userBudgetsPrefix:
		return c.recomputeAllBudgets(ctx, id)
	default:
		slog.Warn("Dropping unknown recompute target", "target", target, "user_id", userID)
		return nil
	}
}

func (c *Coordinator) park(ctx context.Context, userID uuid.UUID, target string, err error) {
	slog.Error("Recompute failed", "target", target, "user_id", userID, "error", err)
	if berr := c.backlog.Add(ctx, userID, target); berr != nil {
		slog.Error("Failed to park recompute target", "target", target, "user_id", userID, "error", berr)
	}
}

// withLock runs fn holding key, bounded by the recompute timeout.
func (c *Coordinator) withLock(ctx context.Context, key string, fn func(context.Context) error) error {
	tctx, cancel := context.WithTimeout(ctx, c.cfg.RecomputeTimeout)
	defer cancel()

	unlock, err := c.locker.Lock(tctx, key)
	if err != nil {
		return domainerror.NewConsistencyError(domainerror.ErrCodeLockNotAcquired, key, "failed to acquire recompute lock",
			fmt.Errorf("%w: %w", domainerror.ErrLockNotAcquired, err))
	}
	defer unlock()

	return fn(tctx)
}

func (c *Coordinator) recomputeBudget(ctx context.Context, budgetID uuid.UUID) (*entity.Budget, error) {
	var (
		result *entity.Budget
		event  *entity.BudgetThresholdEvent
	)
	err := c.withLock(ctx, budget.RecomputeKey(budgetID), func(lctx context.Context) error {
		var err error
		result, event, err = c.aggregator.Recompute(lctx, budgetID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		c.dispatch(ctx, event)
	}
	return result, nil
}

func (c *Coordinator) recomputeUserStats(ctx context.Context, userID uuid.UUID) error {
	return c.withLock(ctx, statistics.RecomputeKey(userID), func(lctx context.Context) error {
		_, err := c.rollup.RecomputeUserStats(lctx, userID)
		return err
	})
}

// recomputeAllBudgets recomputes every budget of the user. The first failure is
// returned after the remaining budgets were attempted.
func (c *Coordinator) recomputeAllBudgets(ctx context.Context, userID uuid.UUID) error {
	tctx, cancel := context.WithTimeout(ctx, c.cfg.RecomputeTimeout)
	budgets, err := c.budgetRepo.FindByUser(tctx, userID, nil)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to list budgets: %w", err)
	}

	var first error
	for _, b := range budgets {
		if _, err := c.recomputeBudget(ctx, b.ID); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *Coordinator) dispatch(ctx context.Context, event *entity.BudgetThresholdEvent) {
	if err := c.notifier.NotifyBudgetThreshold(ctx, *event); err != nil {
		slog.Warn("Budget threshold notification failed",
			"budget_id", event.BudgetID,
			"user_id", event.UserID,
			"error", err,
		)
	}
}

// targetSet is an insertion-ordered set of recompute keys.
type targetSet struct {
	seen  map[string]struct{}
	items []string
}

func newTargetSet() *targetSet {
	return &targetSet{seen: make(map[string]struct{})}
}

func (s *targetSet) add(target string) {
	if _, ok := s.seen[target]; ok {
		return
	}
	s.seen[target] = struct{}{}
	s.items = append(s.items, target)
}
