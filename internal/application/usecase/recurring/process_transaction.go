package recurring

import (
	"context"
	"errors"
	"log/slog"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
)

// ProcessTransactionInput represents a newly ingested transaction to match
// against existing patterns.
type ProcessTransactionInput struct {
	Transaction *entity.BankTransaction
}

// ProcessTransactionOutput reports how many patterns recorded the occurrence.
type ProcessTransactionOutput struct {
	MatchedPatterns int `json:"matched_patterns"`
}

// ProcessTransactionUseCase tests a single new transaction against existing
// patterns and records an occurrence on every match. It runs inline on the
// ingestion path, independent of the batch analysis cadence.
type ProcessTransactionUseCase struct {
	patternRepo adapter.RecurringPatternRepository
	locker      adapter.PatternLocker
}

// NewProcessTransactionUseCase creates a new ProcessTransactionUseCase instance.
func NewProcessTransactionUseCase(
	patternRepo adapter.RecurringPatternRepository,
	locker adapter.PatternLocker,
) *ProcessTransactionUseCase {
	return &ProcessTransactionUseCase{
		patternRepo: patternRepo,
		locker:      locker,
	}
}

// Execute finds candidate patterns for the transaction and records a new
// occurrence on each. A transaction may match zero, one or several patterns
// (split merchants); every match is updated independently, so one failing
// pattern does not block the others.
func (uc *ProcessTransactionUseCase) Execute(ctx context.Context, input ProcessTransactionInput) (*ProcessTransactionOutput, error) {
	tx := input.Transaction
	merchant := NormalizeMerchantName(tx.MerchantName)

	candidates, err := uc.patternRepo.FindCandidates(ctx, merchant, tx.Amount)
	if err != nil {
		return nil, err
	}

	matched := 0
	var firstErr error
	for _, candidate := range candidates {
		if err := uc.recordOccurrence(ctx, candidate, tx); err != nil {
			slog.Warn("Failed to record pattern occurrence",
				"pattern_id", candidate.ID.String(),
				"merchant", merchant,
				"error", err.Error(),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		matched++
	}

	if matched == 0 && firstErr != nil {
		return nil, firstErr
	}
	return &ProcessTransactionOutput{MatchedPatterns: matched}, nil
}

// recordOccurrence applies one occurrence to one pattern under the same
// identity lock the batch merge uses, re-reading the pattern fresh on every
// attempt so a concurrent merge is never overwritten with stale state.
func (uc *ProcessTransactionUseCase) recordOccurrence(ctx context.Context, candidate *entity.RecurringPattern, tx *entity.BankTransaction) error {
	lockKey := identityLockKey(candidate.MerchantName, candidate.Amount)
	return uc.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
			pattern, err := uc.patternRepo.FindByID(ctx, candidate.ID)
			if err != nil {
				return err
			}

			pattern.RecordOccurrence(tx.Date)

			err = uc.patternRepo.Update(ctx, pattern)
			if errors.Is(err, domainerror.ErrPatternVersionConflict) {
				continue
			}
			return err
		}
		return domainerror.NewRecurringError(
			domainerror.ErrCodeVersionConflict,
			"occurrence update lost against concurrent writers",
			domainerror.ErrPatternVersionConflict,
		)
	})
}
