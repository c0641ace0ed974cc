package recurring

import (
	"context"
	"log/slog"
	"time"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
)

// SweepStatusesOutput reports how many patterns changed state during a sweep.
type SweepStatusesOutput struct {
	Swept   int `json:"swept"`
	Updated int `json:"updated"`
}

// SweepStatusesUseCase advances pattern lifecycle states purely from elapsed
// time: significantly overdue patterns become IRREGULAR, long-dormant ones
// become ENDED. Only patterns whose status actually changed are persisted.
type SweepStatusesUseCase struct {
	patternRepo adapter.RecurringPatternRepository
	now         func() time.Time
}

// NewSweepStatusesUseCase creates a new SweepStatusesUseCase instance.
func NewSweepStatusesUseCase(patternRepo adapter.RecurringPatternRepository) *SweepStatusesUseCase {
	return &SweepStatusesUseCase{
		patternRepo: patternRepo,
		now:         time.Now,
	}
}

// Execute runs one sweep over all ACTIVE patterns.
func (uc *SweepStatusesUseCase) Execute(ctx context.Context) (*SweepStatusesOutput, error) {
	patterns, err := uc.patternRepo.FindActiveByStatus(ctx, entity.StatusActive)
	if err != nil {
		return nil, err
	}

	today := uc.now().UTC()
	output := &SweepStatusesOutput{Swept: len(patterns)}

	for _, pattern := range patterns {
		if !uc.advance(pattern, today) {
			continue
		}

		if err := uc.patternRepo.Update(ctx, pattern); err != nil {
			slog.Warn("Failed to persist sweep transition",
				"pattern_id", pattern.ID.String(),
				"merchant", pattern.MerchantName,
				"error", err.Error(),
			)
			continue
		}
		output.Updated++
	}

	return output, nil
}

// advance applies the time-based transitions to one pattern and reports
// whether its status changed. The overdue check runs before the dormancy
// check, so a pattern that trips both in one sweep ends up ENDED.
func (uc *SweepStatusesUseCase) advance(pattern *entity.RecurringPattern, today time.Time) bool {
	changed := false

	if pattern.DaysOverdue(today) > 2*pattern.IntervalDays {
		if next, ok := pattern.Status.Transition(entity.EventOverdue); ok {
			pattern.Status = next
			changed = true
		}
	}

	if pattern.DaysSinceLastOccurrence(today) > 3*pattern.IntervalDays {
		if next, ok := pattern.Status.Transition(entity.EventDormant); ok {
			pattern.Status = next
			changed = true
		}
	}

	if changed {
		pattern.UpdatedAt = time.Now().UTC()
	}
	return changed
}
