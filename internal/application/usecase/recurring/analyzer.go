package recurring

import (
	"math"
	"time"

	"github.com/budget-planner/backend/internal/domain/entity"
	"github.com/budget-planner/backend/internal/domain/valueobject"
)

// intervalAnalysis is the outcome of analyzing a cluster's occurrence dates.
type intervalAnalysis struct {
	Confidence   float64
	Frequency    entity.RecurrenceFrequency
	IntervalDays int
}

// analyzeIntervals computes interval statistics over a cluster's dates
// (sorted ascending) and derives a confidence score and a frequency
// classification. The second return value is false when the cluster is too
// irregular to qualify as a pattern; that is a normal outcome, not an error.
//
// The confidence formula combines an inverted coefficient-of-variation term,
// a flat occurrence bonus and a variance penalty. Downstream thresholds were
// tuned against this exact shape; do not alter it.
func analyzeIntervals(dates []time.Time, cfg valueobject.DetectionConfig) (intervalAnalysis, bool) {
	if len(dates) < 2 {
		return intervalAnalysis{}, false
	}

	intervals := make([]int, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		intervals = append(intervals, entity.DaysBetween(dates[i-1], dates[i]))
	}

	var sum int
	for _, d := range intervals {
		sum += d
	}
	avg := float64(sum) / float64(len(intervals))
	if avg <= 0 {
		// Same-day duplicates carry no cadence information.
		return intervalAnalysis{}, false
	}

	var variance float64
	for _, d := range intervals {
		diff := float64(d) - avg
		variance += diff * diff
	}
	variance /= float64(len(intervals))
	sd := math.Sqrt(variance)

	confidence := math.Max(0, 1-sd/avg)
	confidence += math.Min(0.2, 0.05*float64(len(intervals)))

	maxDeviation := 0.0
	for _, d := range intervals {
		if dev := math.Abs(float64(d) - avg); dev > maxDeviation {
			maxDeviation = dev
		}
	}
	if maxDeviation > float64(cfg.MaxDaysVariance) {
		confidence *= 0.7
	}

	confidence = math.Min(1.0, math.Max(0.0, confidence))
	if confidence < cfg.MinConfidence {
		return intervalAnalysis{}, false
	}

	frequency, intervalDays := classifyFrequency(avg)

	return intervalAnalysis{
		Confidence:   confidence,
		Frequency:    frequency,
		IntervalDays: intervalDays,
	}, true
}

// classifyFrequency buckets an average interval into a recurrence frequency.
// Anything outside the known bands is CUSTOM with the rounded interval.
func classifyFrequency(avgInterval float64) (entity.RecurrenceFrequency, int) {
	intervalDays := int(math.Round(avgInterval))

	switch {
	case avgInterval >= 6 && avgInterval <= 8:
		return entity.FrequencyWeekly, intervalDays
	case avgInterval >= 13 && avgInterval <= 15:
		return entity.FrequencyBiWeekly, intervalDays
	case avgInterval >= 28 && avgInterval <= 32:
		return entity.FrequencyMonthly, intervalDays
	case avgInterval >= 58 && avgInterval <= 62:
		return entity.FrequencyBiMonthly, intervalDays
	case avgInterval >= 88 && avgInterval <= 92:
		return entity.FrequencyQuarterly, intervalDays
	case avgInterval >= 178 && avgInterval <= 182:
		return entity.FrequencySemiAnnually, intervalDays
	case avgInterval >= 360 && avgInterval <= 370:
		return entity.FrequencyAnnually, intervalDays
	default:
		return entity.FrequencyCustom, intervalDays
	}
}
