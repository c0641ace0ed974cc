package recurring

import (
	"context"

	"github.com/budget-planner/backend/internal/application/adapter"
)

// GetMonthlyTotalsOutput represents the output of the monthly totals query.
type GetMonthlyTotalsOutput struct {
	Totals []adapter.CategoryTotal
}

// GetMonthlyTotalsUseCase aggregates the monthly-equivalent amount of active
// patterns per category.
type GetMonthlyTotalsUseCase struct {
	patternRepo adapter.RecurringPatternRepository
}

// NewGetMonthlyTotalsUseCase creates a new GetMonthlyTotalsUseCase instance.
func NewGetMonthlyTotalsUseCase(patternRepo adapter.RecurringPatternRepository) *GetMonthlyTotalsUseCase {
	return &GetMonthlyTotalsUseCase{patternRepo: patternRepo}
}

// Execute returns the monthly totals by category.
func (uc *GetMonthlyTotalsUseCase) Execute(ctx context.Context) (*GetMonthlyTotalsOutput, error) {
	totals, err := uc.patternRepo.AggregateMonthlyTotalsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return &GetMonthlyTotalsOutput{Totals: totals}, nil
}
