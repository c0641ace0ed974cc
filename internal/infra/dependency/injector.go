// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/budget-planner/backend/config"
	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/application/usecase/insight"
	"github.com/budget-planner/backend/internal/application/usecase/recurring"
	"github.com/budget-planner/backend/internal/application/usecase/transaction"
	"github.com/budget-planner/backend/internal/domain/valueobject"
	"github.com/budget-planner/backend/internal/infra/server/router"
	"github.com/budget-planner/backend/internal/infra/worker"
	"github.com/budget-planner/backend/internal/integration/adapters"
	"github.com/budget-planner/backend/internal/integration/entrypoint/controller"
	"github.com/budget-planner/backend/internal/integration/entrypoint/middleware"
	"github.com/budget-planner/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config    *config.Config
	DB        *gorm.DB
	Router    *router.Router
	Sweeper   *worker.Sweeper
	Scheduler *worker.AnalysisScheduler
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil redisClient selects the in-process pattern locker.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	patternRepo := persistence.NewRecurringPatternRepository(db)
	transactionRepo := persistence.NewBankTransactionRepository(db)

	// Create the pattern locker; Redis serializes writers across instances,
	// the in-memory locker covers single-instance deployments
	var locker adapter.PatternLocker
	var lockHealthChecker func() bool
	if redisClient != nil {
		locker = adapters.NewRedisPatternLocker(redisClient)
		lockHealthChecker = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err() == nil
		}
	} else {
		locker = recurring.NewInMemoryPatternLocker()
	}

	// Detection configuration
	detectionCfg := valueobject.DetectionConfig{
		MinOccurrences:         cfg.Detection.MinOccurrences,
		MaxDaysVariance:        cfg.Detection.MaxDaysVariance,
		MinConfidence:          cfg.Detection.MinConfidence,
		AmountTolerancePercent: cfg.Detection.AmountTolerancePercent,
		AnalysisWindowMonths:   cfg.Detection.AnalysisWindowMonths,
	}

	// Create recurring use cases
	tracker := recurring.NewRunTracker()
	analyzeUseCase := recurring.NewAnalyzeTransactionsUseCase(patternRepo, transactionRepo, locker, tracker, detectionCfg)
	statusUseCase := recurring.NewGetAnalysisStatusUseCase(tracker)
	processUseCase := recurring.NewProcessTransactionUseCase(patternRepo, locker)
	sweepUseCase := recurring.NewSweepStatusesUseCase(patternRepo)
	listUseCase := recurring.NewListPatternsUseCase(patternRepo)
	dueSoonUseCase := recurring.NewGetDueSoonUseCase(patternRepo)
	overdueUseCase := recurring.NewGetOverdueUseCase(patternRepo)
	monthlyTotalsUseCase := recurring.NewGetMonthlyTotalsUseCase(patternRepo)
	updateUseCase := recurring.NewUpdatePatternUseCase(patternRepo, locker)
	deactivateUseCase := recurring.NewDeactivatePatternUseCase(patternRepo, locker)

	// Create transaction use cases
	ingestUseCase := transaction.NewIngestTransactionUseCase(transactionRepo, processUseCase)

	// Create insight use cases
	geminiService := adapters.NewGeminiService(cfg.Gemini.APIKey)
	insightUseCase := insight.NewGetSpendingInsightUseCase(patternRepo, geminiService)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, lockHealthChecker)

	transactionController := controller.NewTransactionController(ingestUseCase)

	recurringController := controller.NewRecurringController(
		listUseCase,
		dueSoonUseCase,
		overdueUseCase,
		monthlyTotalsUseCase,
		updateUseCase,
		deactivateUseCase,
		analyzeUseCase,
		statusUseCase,
		sweepUseCase,
	)

	insightController := controller.NewInsightController(insightUseCase)

	// Create middleware
	// Use higher rate limits for test environments to prevent flaky tests
	var analysisRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		analysisRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		analysisRateLimiter = middleware.NewRateLimiter()
	}

	// Create router
	r := router.NewRouter(healthController, transactionController, recurringController, insightController, analysisRateLimiter)

	// Create background workers
	sweeper := worker.NewSweeper(sweepUseCase, cfg.Worker.SweepInterval)
	scheduler := worker.NewAnalysisScheduler(analyzeUseCase, cfg.Worker.AnalysisInterval)

	return &Injector{
		Config:    cfg,
		DB:        db,
		Router:    r,
		Sweeper:   sweeper,
		Scheduler: scheduler,
	}
}
