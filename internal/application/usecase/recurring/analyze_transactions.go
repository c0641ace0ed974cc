package recurring

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
	"github.com/budget-planner/backend/internal/domain/valueobject"
)

// maxUpsertAttempts bounds the retries after an optimistic version conflict.
const maxUpsertAttempts = 3

// identityLockKey is the per-identity critical-section key shared by the
// batch merge step and the live matcher.
func identityLockKey(merchantName string, amount decimal.Decimal) string {
	return "recurring:lock:" + merchantName + ":" + amount.StringFixed(2)
}

// AnalyzeTransactionsInput represents the input for triggering a batch analysis.
type AnalyzeTransactionsInput struct{}

// AnalyzeTransactionsOutput represents the output of triggering a batch analysis.
type AnalyzeTransactionsOutput struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

// AnalyzeTransactionsUseCase is the batch entry point of the detection
// pipeline: it scans the trailing transaction window, groups by normalized
// merchant and runs clusterer, analyzer, builder and merger per merchant.
type AnalyzeTransactionsUseCase struct {
	patternRepo     adapter.RecurringPatternRepository
	transactionRepo adapter.BankTransactionRepository
	locker          adapter.PatternLocker
	tracker         *RunTracker
	cfg             valueobject.DetectionConfig
	now             func() time.Time
}

// NewAnalyzeTransactionsUseCase creates a new AnalyzeTransactionsUseCase instance.
func NewAnalyzeTransactionsUseCase(
	patternRepo adapter.RecurringPatternRepository,
	transactionRepo adapter.BankTransactionRepository,
	locker adapter.PatternLocker,
	tracker *RunTracker,
	cfg valueobject.DetectionConfig,
) *AnalyzeTransactionsUseCase {
	return &AnalyzeTransactionsUseCase{
		patternRepo:     patternRepo,
		transactionRepo: transactionRepo,
		locker:          locker,
		tracker:         tracker,
		cfg:             cfg,
		now:             time.Now,
	}
}

// Execute starts a batch analysis in the background and returns its run ID.
// The result is observed through the run tracker, not a direct return.
func (uc *AnalyzeTransactionsUseCase) Execute(ctx context.Context, _ AnalyzeTransactionsInput) (*AnalyzeTransactionsOutput, error) {
	runID := uuid.New().String()

	if !uc.tracker.Begin(runID) {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeAnalysisAlreadyRunning,
			"recurring analysis is already in progress",
			domainerror.ErrAnalysisAlreadyRunning,
		)
	}

	// Detached from the caller's context: the batch outlives the request.
	go uc.runAsync(context.Background(), runID)

	return &AnalyzeTransactionsOutput{
		RunID:   runID,
		Message: "recurring pattern analysis started",
	}, nil
}

// runAsync executes the batch and records the outcome on the tracker.
func (uc *AnalyzeTransactionsUseCase) runAsync(ctx context.Context, runID string) {
	logger := slog.Default().With("run_id", runID)
	logger.Info("Starting recurring pattern analysis")
	start := time.Now()

	result, err := uc.Run(ctx)
	uc.tracker.Finish(result, err)

	if err != nil {
		logger.Error("Recurring pattern analysis failed", "error", err.Error())
		return
	}
	logger.Info("Recurring pattern analysis complete",
		"patterns_created", result.PatternsCreated,
		"patterns_updated", result.PatternsUpdated,
		"merchants_analyzed", result.MerchantsAnalyzed,
		"merchant_failures", result.MerchantFailures,
		"duration", time.Since(start).String(),
	)
}

// Run executes one batch analysis synchronously. Re-running over an unchanged
// transaction set is safe: the merger's max/adopt-if-newer rules keep
// occurrence counts stable. A failing merchant is logged and counted without
// aborting the rest of the batch.
func (uc *AnalyzeTransactionsUseCase) Run(ctx context.Context) (*AnalysisResult, error) {
	cutoff := uc.now().UTC().AddDate(0, -uc.cfg.AnalysisWindowMonths, 0)

	transactions, err := uc.transactionRepo.FindCreatedAfter(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	byMerchant := make(map[string][]*entity.BankTransaction)
	for _, tx := range transactions {
		key := NormalizeMerchantName(tx.MerchantName)
		byMerchant[key] = append(byMerchant[key], tx)
	}

	merchants := make([]string, 0, len(byMerchant))
	for merchant := range byMerchant {
		merchants = append(merchants, merchant)
	}
	sort.Strings(merchants)

	result := &AnalysisResult{TransactionsScanned: len(transactions)}

	for _, merchant := range merchants {
		// Cooperative abort point between merchants.
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		merchantTxs := byMerchant[merchant]
		if len(merchantTxs) < uc.cfg.MinOccurrences {
			continue
		}
		result.MerchantsAnalyzed++

		created, updated, err := uc.analyzeMerchant(ctx, merchant, merchantTxs)
		result.PatternsCreated += created
		result.PatternsUpdated += updated
		if err != nil {
			result.MerchantFailures++
			slog.Warn("Merchant analysis failed",
				"merchant", merchant,
				"error", err.Error(),
			)
		}
	}

	return result, nil
}

// analyzeMerchant detects and persists the patterns of a single merchant.
func (uc *AnalyzeTransactionsUseCase) analyzeMerchant(
	ctx context.Context,
	merchant string,
	transactions []*entity.BankTransaction,
) (created, updated int, err error) {
	patterns := detectPatterns(merchant, transactions, uc.now().UTC(), uc.cfg)

	for _, pattern := range patterns {
		wasCreated, upsertErr := uc.upsertPattern(ctx, pattern)
		if upsertErr != nil {
			return created, updated, upsertErr
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

// upsertPattern persists a detected pattern under the identity's lock. An
// existing identity is reconciled through the merger; version conflicts are
// retried with a fresh read so no concurrent update is ever overwritten
// blindly.
func (uc *AnalyzeTransactionsUseCase) upsertPattern(ctx context.Context, candidate *entity.RecurringPattern) (bool, error) {
	var created bool

	err := uc.locker.WithLock(ctx, identityLockKey(candidate.MerchantName, candidate.Amount), func(ctx context.Context) error {
		for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
			existing, findErr := uc.patternRepo.FindByIdentity(ctx, candidate.MerchantName, candidate.Amount)
			if errors.Is(findErr, domainerror.ErrPatternNotFound) {
				created = true
				return uc.patternRepo.Create(ctx, candidate)
			}
			if findErr != nil {
				return findErr
			}

			mergeIntoExisting(existing, candidate)

			updateErr := uc.patternRepo.Update(ctx, existing)
			if errors.Is(updateErr, domainerror.ErrPatternVersionConflict) {
				continue
			}
			return updateErr
		}
		return domainerror.NewRecurringError(
			domainerror.ErrCodeVersionConflict,
			"pattern upsert lost against concurrent writers",
			domainerror.ErrPatternVersionConflict,
		)
	})

	return created, err
}
