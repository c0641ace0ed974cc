// Package insight contains AI spending-insight use cases.
package insight

import (
	"context"

	"github.com/budget-planner/backend/internal/application/adapter"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
)

// GetSpendingInsightOutput represents the generated insight.
type GetSpendingInsightOutput struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// GetSpendingInsightUseCase produces a natural-language assessment of the
// user's recurring spend from the detected patterns.
type GetSpendingInsightUseCase struct {
	patternRepo    adapter.RecurringPatternRepository
	insightService adapter.InsightService
}

// NewGetSpendingInsightUseCase creates a new GetSpendingInsightUseCase instance.
func NewGetSpendingInsightUseCase(
	patternRepo adapter.RecurringPatternRepository,
	insightService adapter.InsightService,
) *GetSpendingInsightUseCase {
	return &GetSpendingInsightUseCase{
		patternRepo:    patternRepo,
		insightService: insightService,
	}
}

// Execute gathers the active patterns and asks the insight service for a
// summary.
func (uc *GetSpendingInsightUseCase) Execute(ctx context.Context) (*GetSpendingInsightOutput, error) {
	if uc.insightService == nil || !uc.insightService.IsAvailable() {
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodeInsightUnavailable,
			"insight service is not configured",
			domainerror.ErrInsightUnavailable,
		)
	}

	patterns, err := uc.patternRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodeNoPatternsForInsight,
			"no active recurring patterns to analyze",
			domainerror.ErrNoPatternsForInsight,
		)
	}

	totals, err := uc.patternRepo.AggregateMonthlyTotalsByCategory(ctx)
	if err != nil {
		return nil, err
	}

	request := &adapter.SpendingInsightRequest{
		Patterns:       make([]*adapter.PatternForInsight, len(patterns)),
		CategoryTotals: totals,
	}
	for i, p := range patterns {
		request.Patterns[i] = &adapter.PatternForInsight{
			MerchantName: p.MerchantName,
			Amount:       p.Amount.StringFixed(2),
			Frequency:    string(p.Frequency),
			Category:     p.Category,
			Status:       string(p.Status),
		}
	}

	result, err := uc.insightService.GenerateSpendingInsight(ctx, request)
	if err != nil {
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodeInsightGeneration,
			"failed to generate spending insight",
			err,
		)
	}

	return &GetSpendingInsightOutput{
		Summary:     result.Summary,
		Suggestions: result.Suggestions,
	}, nil
}
