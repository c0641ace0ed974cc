// Package valueobject contains domain value objects for the budget planner backend.
package valueobject

import "github.com/shopspring/decimal"

// DetectionConfig contains the tuning constants for recurring pattern detection.
// The defaults were calibrated together: the 0.6 confidence threshold assumes
// the exact confidence formula implemented by the interval analyzer.
type DetectionConfig struct {
	// MinOccurrences is the minimum cluster size before a pattern may be created.
	MinOccurrences int

	// MaxDaysVariance is the largest single-interval deviation from the mean
	// tolerated before the confidence penalty applies.
	MaxDaysVariance int

	// MinConfidence is the score below which a cluster yields no pattern.
	MinConfidence float64

	// AmountTolerancePercent is the allowed amount deviation for clustering
	// and matching, as a percentage of the reference amount.
	AmountTolerancePercent float64

	// AnalysisWindowMonths is the trailing window of transactions the batch
	// analysis considers.
	AnalysisWindowMonths int
}

// DefaultDetectionConfig returns the default detection configuration.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		MinOccurrences:         2,
		MaxDaysVariance:        7,
		MinConfidence:          0.6,
		AmountTolerancePercent: 10.0,
		AnalysisWindowMonths:   12,
	}
}

// IsAmountWithinTolerance reports whether amount is within the configured
// tolerance of anchor. The tolerance band is relative to the anchor.
func (c DetectionConfig) IsAmountWithinTolerance(anchor, amount decimal.Decimal) bool {
	tolerance := anchor.Abs().Mul(decimal.NewFromFloat(c.AmountTolerancePercent / 100.0))
	return amount.Sub(anchor).Abs().LessThanOrEqual(tolerance)
}
