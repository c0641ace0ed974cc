package dto

import "github.com/budget-planner/backend/internal/application/usecase/insight"

// SpendingInsightResponse represents the AI-generated spending insight.
type SpendingInsightResponse struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// ToSpendingInsightResponse converts an insight output to its DTO.
func ToSpendingInsightResponse(output *insight.GetSpendingInsightOutput) SpendingInsightResponse {
	return SpendingInsightResponse{
		Summary:     output.Summary,
		Suggestions: output.Suggestions,
	}
}
