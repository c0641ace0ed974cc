package recurring

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
)

// UpdatePatternInput represents a manual pattern edit. Nil fields are left
// unchanged.
type UpdatePatternInput struct {
	ID                     uuid.UUID
	Frequency              *string
	IntervalDays           *int
	AmountTolerancePercent *float64
	// Status is a manual lifecycle override; it must follow the same
	// transition table the sweep and matcher use.
	Status          *string
	ConfidenceScore *float64
	CategoryType    *string
	Category        *string
	Notes           *string
	UserConfirmed   *bool
	// OccurrenceCount is an explicit correction; it is the only path that may
	// lower the count.
	OccurrenceCount *int
}

// UpdatePatternOutput represents the output of a manual pattern edit.
type UpdatePatternOutput struct {
	Pattern *entity.RecurringPattern
}

// UpdatePatternUseCase applies a user's manual edit to a pattern. Input is
// validated in full before anything is written, so an invalid edit never
// corrupts the stored entity.
type UpdatePatternUseCase struct {
	patternRepo adapter.RecurringPatternRepository
	locker      adapter.PatternLocker
}

// NewUpdatePatternUseCase creates a new UpdatePatternUseCase instance.
func NewUpdatePatternUseCase(
	patternRepo adapter.RecurringPatternRepository,
	locker adapter.PatternLocker,
) *UpdatePatternUseCase {
	return &UpdatePatternUseCase{
		patternRepo: patternRepo,
		locker:      locker,
	}
}

// Execute validates and applies the edit.
func (uc *UpdatePatternUseCase) Execute(ctx context.Context, input UpdatePatternInput) (*UpdatePatternOutput, error) {
	if err := validateUpdateInput(input); err != nil {
		return nil, err
	}

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

			// Legality depends on the current status, so it is rechecked on
			// every retry against the freshly read pattern.
			if input.Status != nil && !pattern.Status.CanTransitionTo(entity.RecurringStatus(*input.Status)) {
				return domainerror.NewRecurringError(
					domainerror.ErrCodeIllegalStatusTransition,
					"status "+string(pattern.Status)+" cannot change to "+*input.Status,
					domainerror.ErrIllegalStatusTransition,
				)
			}

			applyUpdate(pattern, input)

			err = uc.patternRepo.Update(ctx, pattern)
			if errors.Is(err, domainerror.ErrPatternVersionConflict) {
				continue
			}
			return err
		}
		return domainerror.NewRecurringError(
			domainerror.ErrCodeVersionConflict,
			"pattern edit lost against concurrent writers",
			domainerror.ErrPatternVersionConflict,
		)
	})
	if err != nil {
		return nil, err
	}

	return &UpdatePatternOutput{Pattern: pattern}, nil
}

// validateUpdateInput checks every supplied field, naming the offending
// field in the error.
func validateUpdateInput(input UpdatePatternInput) error {
	if input.Frequency != nil && !entity.RecurrenceFrequency(*input.Frequency).IsValid() {
		return domainerror.NewValidationError("frequency", "unknown recurrence frequency", domainerror.ErrInvalidFrequency)
	}
	if input.IntervalDays != nil && *input.IntervalDays <= 0 {
		return domainerror.NewValidationError("interval_days", "must be positive", domainerror.ErrInvalidIntervalDays)
	}
	if input.AmountTolerancePercent != nil && *input.AmountTolerancePercent < 0 {
		return domainerror.NewValidationError("amount_tolerance_percent", "must not be negative", domainerror.ErrInvalidAmountTolerance)
	}
	if input.Status != nil && !entity.RecurringStatus(*input.Status).IsValid() {
		return domainerror.NewValidationError("status", "unknown pattern status", domainerror.ErrInvalidStatus)
	}
	if input.ConfidenceScore != nil && (*input.ConfidenceScore < 0 || *input.ConfidenceScore > 1) {
		return domainerror.NewValidationError("confidence_score", "must be between 0 and 1", domainerror.ErrInvalidConfidenceScore)
	}
	if input.OccurrenceCount != nil && *input.OccurrenceCount < 0 {
		return domainerror.NewValidationError("occurrence_count", "must not be negative", domainerror.ErrInvalidOccurrenceCount)
	}
	return nil
}

// applyUpdate copies the supplied fields onto the pattern. Changing the
// frequency without an explicit interval adopts the frequency's nominal
// interval; any interval change recomputes the next expected date so the
// derivation invariant holds.
func applyUpdate(pattern *entity.RecurringPattern, input UpdatePatternInput) {
	intervalChanged := false

	if input.Frequency != nil {
		pattern.Frequency = entity.RecurrenceFrequency(*input.Frequency)
		if input.IntervalDays == nil && pattern.Frequency != entity.FrequencyCustom {
			pattern.IntervalDays = pattern.Frequency.DefaultIntervalDays()
			intervalChanged = true
		}
	}
	if input.IntervalDays != nil {
		pattern.IntervalDays = *input.IntervalDays
		intervalChanged = true
	}
	if input.AmountTolerancePercent != nil {
		pattern.AmountTolerancePercent = *input.AmountTolerancePercent
	}
	if input.Status != nil {
		pattern.Status = entity.RecurringStatus(*input.Status)
	}
	if input.ConfidenceScore != nil {
		pattern.ConfidenceScore = *input.ConfidenceScore
	}
	if input.CategoryType != nil {
		pattern.CategoryType = *input.CategoryType
	}
	if input.Category != nil {
		pattern.Category = *input.Category
	}
	if input.Notes != nil {
		pattern.Notes = *input.Notes
	}
	if input.UserConfirmed != nil {
		pattern.UserConfirmed = *input.UserConfirmed
	}
	if input.OccurrenceCount != nil {
		pattern.OccurrenceCount = *input.OccurrenceCount
	}

	if intervalChanged {
		pattern.NextExpectedDate = pattern.CalculateNextExpectedDate()
	}
	pattern.UpdatedAt = time.Now().UTC()
}
