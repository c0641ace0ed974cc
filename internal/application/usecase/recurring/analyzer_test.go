package recurring

import (
	"math"
	"testing"
	"time"

	"github.com/budget-planner/backend/internal/domain/entity"
	"github.com/budget-planner/backend/internal/domain/valueobject"
)

func dates(offsets ...int) []time.Time {
	out := make([]time.Time, len(offsets))
	for i, offset := range offsets {
		out[i] = day(offset)
	}
	return out
}

func TestAnalyzeIntervals(t *testing.T) {
	cfg := valueobject.DefaultDetectionConfig()

	t.Run("perfectly regular monthly cadence maxes out confidence", func(t *testing.T) {
		analysis, ok := analyzeIntervals(dates(0, 30, 60, 90), cfg)
		if !ok {
			t.Fatal("expected a qualifying analysis")
		}
		if analysis.Confidence != 1.0 {
			t.Errorf("expected confidence 1.0, got %v", analysis.Confidence)
		}
		if analysis.Frequency != entity.FrequencyMonthly {
			t.Errorf("expected MONTHLY, got %s", analysis.Frequency)
		}
		if analysis.IntervalDays != 30 {
			t.Errorf("expected interval 30, got %d", analysis.IntervalDays)
		}
	})

	t.Run("small jitter keeps the pattern qualifying", func(t *testing.T) {
		// Intervals 29, 31, 30: sd is well under the mean and no deviation
		// exceeds the variance cap.
		analysis, ok := analyzeIntervals(dates(0, 29, 60, 90), cfg)
		if !ok {
			t.Fatal("expected a qualifying analysis")
		}
		if analysis.Confidence < cfg.MinConfidence {
			t.Errorf("expected confidence >= %v, got %v", cfg.MinConfidence, analysis.Confidence)
		}
		if analysis.Frequency != entity.FrequencyMonthly {
			t.Errorf("expected MONTHLY, got %s", analysis.Frequency)
		}
	})

	t.Run("additional occurrences raise confidence", func(t *testing.T) {
		// Both series carry the same jitter; the longer one earns a larger
		// occurrence bonus.
		short, ok := analyzeIntervals(dates(0, 24, 60), cfg)
		if !ok {
			t.Fatal("expected short series to qualify")
		}
		long, ok := analyzeIntervals(dates(0, 24, 60, 84, 120), cfg)
		if !ok {
			t.Fatal("expected long series to qualify")
		}
		if long.Confidence <= short.Confidence {
			t.Errorf("expected longer series confidence %v to exceed %v", long.Confidence, short.Confidence)
		}
	})

	t.Run("large deviation applies the variance penalty", func(t *testing.T) {
		// Intervals 20 and 40: mean 30, max deviation 10 beyond the 7 day
		// cap. Base confidence 0.767 drops to 0.537 under the threshold.
		if _, ok := analyzeIntervals(dates(0, 20, 60), cfg); ok {
			t.Error("expected erratic series to be rejected")
		}
	})

	t.Run("weekly cadence classifies as WEEKLY", func(t *testing.T) {
		analysis, ok := analyzeIntervals(dates(0, 7, 14, 21), cfg)
		if !ok {
			t.Fatal("expected a qualifying analysis")
		}
		if analysis.Frequency != entity.FrequencyWeekly {
			t.Errorf("expected WEEKLY, got %s", analysis.Frequency)
		}
		if analysis.IntervalDays != 7 {
			t.Errorf("expected interval 7, got %d", analysis.IntervalDays)
		}
	})

	t.Run("unbucketed cadence classifies as CUSTOM", func(t *testing.T) {
		analysis, ok := analyzeIntervals(dates(0, 45, 90, 135), cfg)
		if !ok {
			t.Fatal("expected a qualifying analysis")
		}
		if analysis.Frequency != entity.FrequencyCustom {
			t.Errorf("expected CUSTOM, got %s", analysis.Frequency)
		}
		if analysis.IntervalDays != 45 {
			t.Errorf("expected interval 45, got %d", analysis.IntervalDays)
		}
	})

	t.Run("fewer than two dates never qualifies", func(t *testing.T) {
		if _, ok := analyzeIntervals(dates(0), cfg); ok {
			t.Error("expected single date to be rejected")
		}
		if _, ok := analyzeIntervals(nil, cfg); ok {
			t.Error("expected empty input to be rejected")
		}
	})

	t.Run("same-day duplicates never qualify", func(t *testing.T) {
		if _, ok := analyzeIntervals(dates(0, 0, 0), cfg); ok {
			t.Error("expected zero-interval series to be rejected")
		}
	})
}

func TestClassifyFrequency(t *testing.T) {
	cases := []struct {
		avg      float64
		want     entity.RecurrenceFrequency
		interval int
	}{
		{6, entity.FrequencyWeekly, 6},
		{7, entity.FrequencyWeekly, 7},
		{8, entity.FrequencyWeekly, 8},
		{14, entity.FrequencyBiWeekly, 14},
		{28, entity.FrequencyMonthly, 28},
		{30.4, entity.FrequencyMonthly, 30},
		{32, entity.FrequencyMonthly, 32},
		{60, entity.FrequencyBiMonthly, 60},
		{90, entity.FrequencyQuarterly, 90},
		{180, entity.FrequencySemiAnnually, 180},
		{365, entity.FrequencyAnnually, 365},
		{10, entity.FrequencyCustom, 10},
		{45.6, entity.FrequencyCustom, 46},
		{33, entity.FrequencyCustom, 33},
	}

	for _, tc := range cases {
		freq, interval := classifyFrequency(tc.avg)
		if freq != tc.want {
			t.Errorf("classifyFrequency(%v) = %s, want %s", tc.avg, freq, tc.want)
		}
		if interval != tc.interval {
			t.Errorf("classifyFrequency(%v) interval = %d, want %d", tc.avg, interval, tc.interval)
		}
	}
}

func TestConfidenceFormula(t *testing.T) {
	// Intervals 26 and 40: mean 33, sd 7. Base 1 - 7/33, plus the 0.05
	// per-interval bonus; a deviation of exactly 7 days does not trip the
	// variance penalty.
	analysis, ok := analyzeIntervals(dates(0, 26, 66), valueobject.DefaultDetectionConfig())
	if !ok {
		t.Fatal("expected a qualifying analysis")
	}

	want := (1 - 7.0/33.0) + 0.1
	if math.Abs(analysis.Confidence-want) > 1e-9 {
		t.Errorf("expected confidence %v, got %v", want, analysis.Confidence)
	}
}
