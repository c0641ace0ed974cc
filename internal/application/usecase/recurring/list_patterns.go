package recurring

import (
	"context"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
)

// ListPatternsOutput represents the output of listing recurring patterns.
type ListPatternsOutput struct {
	Patterns []*entity.RecurringPattern
}

// ListPatternsUseCase lists all active recurring patterns.
type ListPatternsUseCase struct {
	patternRepo adapter.RecurringPatternRepository
}

// NewListPatternsUseCase creates a new ListPatternsUseCase instance.
func NewListPatternsUseCase(patternRepo adapter.RecurringPatternRepository) *ListPatternsUseCase {
	return &ListPatternsUseCase{patternRepo: patternRepo}
}

// Execute returns all active patterns ordered by merchant name.
func (uc *ListPatternsUseCase) Execute(ctx context.Context) (*ListPatternsOutput, error) {
	patterns, err := uc.patternRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	return &ListPatternsOutput{Patterns: patterns}, nil
}
