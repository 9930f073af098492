// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/consistency"
	"github.com/finance-tracker/ledger/internal/application/usecase/statistics"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/infra/cache"
	"github.com/finance-tracker/ledger/internal/infra/server/router"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/email"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/ledger/internal/integration/notification"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

const (
	NotifierEmail = "email"
	NotifierAMQP  = "amqp"
	NotifierLog   = "log"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Router       *router.Router
	Coordinator  *consistency.Coordinator
	SeedDefaults *category.SeedDefaultsUseCase
	RenewalsDue  *budget.ListRenewalsDueUseCase
	RenewBudget  *budget.RenewBudgetUseCase
	EmailWorker  *email.Worker

	closers []io.Closer
}

// Option customizes the injector.
type Option func(*options)

type options struct {
	clock adapter.Clock
}

// WithClock replaces the system clock.
func WithClock(clock adapter.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case recompute locks and the backlog stay in process.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, dbHealthChecker func() bool, opts ...Option) (*Injector, error) {
	inj := &Injector{Config: cfg, DB: db}

	o := options{clock: adapters.NewSystemClock()}
	for _, opt := range opts {
		opt(&o)
	}

	// Repositories
	userRepo := persistence.NewUserRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	statsRepo := persistence.NewUserStatisticsRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Adapters
	clock := o.clock
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)

	var (
		locker  adapter.KeyLocker
		backlog adapter.RecomputeBacklog
	)
	if redisClient != nil {
		locker = adapters.NewRedisLocker(redisClient, cfg.Ledger.LockTTL)
		backlog = adapters.NewRedisBacklog(redisClient)
	} else {
		slog.Warn("Redis not configured, recompute locks are process-local")
		locker = adapters.NewMemoryLocker()
		backlog = adapters.NewMemoryBacklog()
	}

	// Email pipeline
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	var sender adapter.EmailSender = email.LogSender{}
	if cfg.Email.ResendAPIKey != "" {
		resendClient := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		if cfg.Email.ResendBaseURL != "" {
			if resendClient, err = resendClient.WithBaseURL(cfg.Email.ResendBaseURL); err != nil {
				return nil, err
			}
		}
		sender = resendClient
	}
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)
	inj.EmailWorker = email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		Retention:    email.DefaultWorkerConfig().Retention,
	})

	notifier, err := inj.newNotifier(userRepo, categoryRepo, emailService)
	if err != nil {
		return nil, err
	}

	// Derived data
	aggregator := budget.NewAggregator(budgetRepo, transactionRepo, clock, budget.AggregatorConfig{
		NotificationCooldown: cfg.Ledger.NotificationCooldown,
		NearLimitPercent:     cfg.Ledger.NearLimitPercent,
		RenewalWindowDays:    cfg.Ledger.RenewalWindowDays,
	})
	rollup := statistics.NewRollup(transactionRepo, statsRepo, clock)
	coordinator := consistency.NewCoordinator(
		aggregator,
		rollup,
		budgetRepo,
		transactionRepo,
		locker,
		backlog,
		notifier,
		consistency.Config{
			RecomputeTimeout:     cfg.Ledger.RecomputeTimeout,
			ReconcileConcurrency: cfg.Ledger.ReconcileConcurrency,
		},
	)
	inj.Coordinator = coordinator

	// Category use cases
	inj.SeedDefaults = category.NewSeedDefaultsUseCase(categoryRepo)
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo, transactionRepo, budgetRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, transactionRepo)

	// Transaction use cases
	factory := transaction.NewEntryFactory(categoryRepo, clock)
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo, categoryRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, factory, coordinator)
	importTransactionsUseCase := transaction.NewImportTransactionsUseCase(transactionRepo, factory, coordinator)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, factory, coordinator)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo, clock, coordinator)
	archiveTransactionUseCase := transaction.NewArchiveTransactionUseCase(transactionRepo, clock, coordinator)

	// Budget use cases
	listBudgetsUseCase := budget.NewListBudgetsUseCase(budgetRepo, categoryRepo)
	getBudgetUseCase := budget.NewGetBudgetUseCase(budgetRepo, categoryRepo)
	createBudgetUseCase := budget.NewCreateBudgetUseCase(budgetRepo, categoryRepo, coordinator)
	updateBudgetUseCase := budget.NewUpdateBudgetUseCase(budgetRepo, coordinator)
	deleteBudgetUseCase := budget.NewDeleteBudgetUseCase(budgetRepo)
	summaryUseCase := budget.NewGetSummaryUseCase(aggregator, clock)
	inj.RenewBudget = budget.NewRenewBudgetUseCase(budgetRepo, aggregator, coordinator, clock)
	inj.RenewalsDue = budget.NewListRenewalsDueUseCase(budgetRepo, aggregator, clock)

	// Statistics use cases
	userStatsUseCase := statistics.NewGetUserStatsUseCase(statsRepo)
	trendUseCase := statistics.NewGetMonthlyTrendUseCase(rollup, clock)
	rankingUseCase := statistics.NewGetCategoryRankingUseCase(rollup, categoryRepo, clock)
	paymentMethodsUseCase := statistics.NewGetPaymentMethodsUseCase(rollup, clock)
	timeOfDayUseCase := statistics.NewGetTimeOfDayUseCase(rollup, clock)
	overviewUseCase := statistics.NewGetOverviewUseCase(userStatsUseCase, rankingUseCase, paymentMethodsUseCase, timeOfDayUseCase)

	// Controllers
	var redisHealthChecker func() bool
	if redisClient != nil {
		redisHealthChecker = cache.HealthCheck(redisClient)
	}
	healthController := controller.NewHealthController(dbHealthChecker, redisHealthChecker)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		getTransactionUseCase,
		createTransactionUseCase,
		importTransactionsUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		archiveTransactionUseCase,
	)

	budgetController := controller.NewBudgetController(
		listBudgetsUseCase,
		getBudgetUseCase,
		createBudgetUseCase,
		updateBudgetUseCase,
		deleteBudgetUseCase,
		summaryUseCase,
		inj.RenewBudget,
		inj.RenewalsDue,
	)

	statisticsController := controller.NewStatisticsController(
		userStatsUseCase,
		trendUseCase,
		rankingUseCase,
		paymentMethodsUseCase,
		timeOfDayUseCase,
		overviewUseCase,
		coordinator,
	)

	// Middleware
	heavyRateLimiter := middleware.NewRateLimiter(cfg.Server.HeavyRateLimit, time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	inj.Router = router.NewRouter(
		healthController,
		categoryController,
		transactionController,
		budgetController,
		statisticsController,
		heavyRateLimiter,
		authMiddleware,
	)

	return inj, nil
}

// newNotifier builds the configured threshold event transport.
func (inj *Injector) newNotifier(
	userRepo adapter.UserRepository,
	categoryRepo adapter.CategoryRepository,
	emailService adapter.EmailService,
) (adapter.BudgetNotifier, error) {
	cfg := inj.Config.Notification

	switch cfg.Transport {
	case NotifierEmail:
		return notification.NewEmailNotifier(userRepo, categoryRepo, emailService), nil
	case NotifierAMQP:
		publisher, err := notification.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRouting)
		if err != nil {
			return nil, fmt.Errorf("failed to connect notification broker: %w", err)
		}
		inj.closers = append(inj.closers, publisher)
		return publisher, nil
	case NotifierLog, "":
		return notification.LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("unknown notification transport %q", cfg.Transport)
	}
}

// Close releases the connections opened by the injector.
func (inj *Injector) Close() {
	for _, c := range inj.closers {
		if err := c.Close(); err != nil {
			slog.Error("Failed to close dependency", "error", err)
		}
	}
}
