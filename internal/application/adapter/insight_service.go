package adapter

import "context"

// PatternForInsight is the slice of pattern data exposed to the insight model.
type PatternForInsight struct {
	MerchantName string
	Amount       string
	Frequency    string
	Category     string
	Status       string
}

// SpendingInsightRequest bundles the detected patterns for analysis.
type SpendingInsightRequest struct {
	Patterns       []*PatternForInsight
	CategoryTotals []CategoryTotal
}

// SpendingInsight is the model's assessment of the user's recurring spend.
type SpendingInsight struct {
	Summary     string
	Suggestions []string
}

// InsightService defines the interface for AI-generated spending insights.
type InsightService interface {
	// GenerateSpendingInsight produces a natural-language summary of the
	// user's recurring spend.
	GenerateSpendingInsight(ctx context.Context, request *SpendingInsightRequest) (*SpendingInsight, error)

	// IsAvailable checks if the insight service is configured.
	IsAvailable() bool
}
