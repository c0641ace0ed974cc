package recurring

import (
	"context"
	"time"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
)

// GetOverdueOutput represents the output of the overdue listing.
type GetOverdueOutput struct {
	Patterns []*entity.RecurringPattern
}

// GetOverdueUseCase lists active patterns whose expected date has passed.
type GetOverdueUseCase struct {
	patternRepo adapter.RecurringPatternRepository
	now         func() time.Time
}

// NewGetOverdueUseCase creates a new GetOverdueUseCase instance.
func NewGetOverdueUseCase(patternRepo adapter.RecurringPatternRepository) *GetOverdueUseCase {
	return &GetOverdueUseCase{
		patternRepo: patternRepo,
		now:         time.Now,
	}
}

// Execute returns active patterns overdue as of today.
func (uc *GetOverdueUseCase) Execute(ctx context.Context) (*GetOverdueOutput, error) {
	patterns, err := uc.patternRepo.FindOverdue(ctx, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	return &GetOverdueOutput{Patterns: patterns}, nil
}
