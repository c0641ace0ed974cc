package recurring

import (
	"context"
	"time"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
)

// GetDueSoonInput represents the input for the due-soon lookahead.
type GetDueSoonInput struct {
	DaysAhead int
}

// GetDueSoonOutput represents the output of the due-soon lookahead.
type GetDueSoonOutput struct {
	Patterns []*entity.RecurringPattern
}

// GetDueSoonUseCase lists active patterns expected within the next N days.
type GetDueSoonUseCase struct {
	patternRepo adapter.RecurringPatternRepository
	now         func() time.Time
}

// NewGetDueSoonUseCase creates a new GetDueSoonUseCase instance.
func NewGetDueSoonUseCase(patternRepo adapter.RecurringPatternRepository) *GetDueSoonUseCase {
	return &GetDueSoonUseCase{
		patternRepo: patternRepo,
		now:         time.Now,
	}
}

// Execute returns active patterns whose next expected date falls within
// [today, today + DaysAhead].
func (uc *GetDueSoonUseCase) Execute(ctx context.Context, input GetDueSoonInput) (*GetDueSoonOutput, error) {
	if input.DaysAhead < 0 {
		return nil, domainerror.NewValidationError("days_ahead", "must not be negative", nil)
	}

	today := uc.now().UTC()
	patterns, err := uc.patternRepo.FindDueWithin(ctx, today, today.AddDate(0, 0, input.DaysAhead))
	if err != nil {
		return nil, err
	}
	return &GetDueSoonOutput{Patterns: patterns}, nil
}
