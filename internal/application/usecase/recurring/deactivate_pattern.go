package recurring

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
)

// DeactivatePatternInput represents the input for deactivating a pattern.
type DeactivatePatternInput struct {
	ID uuid.UUID
}

// DeactivatePatternOutput represents the output of deactivating a pattern.
type DeactivatePatternOutput struct {
	Pattern *entity.RecurringPattern
}

// DeactivatePatternUseCase ends a pattern on behalf of the user.
type DeactivatePatternUseCase struct {
	patternRepo adapter.RecurringPatternRepository
	locker      adapter.PatternLocker
}

// NewDeactivatePatternUseCase creates a new DeactivatePatternUseCase instance.
func NewDeactivatePatternUseCase(
	patternRepo adapter.RecurringPatternRepository,
	locker adapter.PatternLocker,
) *DeactivatePatternUseCase {
	return &DeactivatePatternUseCase{
		patternRepo: patternRepo,
		locker:      locker,
	}
}

// Execute marks the pattern ENDED and inactive.
func (uc *DeactivatePatternUseCase) Execute(ctx context.Context, input DeactivatePatternInput) (*DeactivatePatternOutput, error) {
	pattern, err := uc.patternRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	lockKey := identityLockKey(pattern.MerchantName, pattern.Amount)
	err = uc.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
			pattern, err = uc.patternRepo.FindByID(ctx, input.ID)
			if err != nil {
				return err
			}

			pattern.Deactivate()

			err = uc.patternRepo.Update(ctx, pattern)
			if errors.Is(err, domainerror.ErrPatternVersionConflict) {
				continue
			}
			return err
		}
		return domainerror.NewRecurringError(
			domainerror.ErrCodeVersionConflict,
			"pattern deactivation lost against concurrent writers",
			domainerror.ErrPatternVersionConflict,
		)
	})
	if err != nil {
		return nil, err
	}

	return &DeactivatePatternOutput{Pattern: pattern}, nil
}
