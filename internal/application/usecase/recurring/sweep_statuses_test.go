package recurring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/domain/entity"
)

func sweepPattern(t *testing.T, repo *fakePatternRepo, merchant string, last, next time.Time, intervalDays int) *entity.RecurringPattern {
	t.Helper()

	pattern := &entity.RecurringPattern{
		ID:                     uuid.New(),
		MerchantName:           merchant,
		Amount:                 decimal.NewFromFloat(-15.99),
		AmountTolerancePercent: 10,
		Frequency:              entity.FrequencyMonthly,
		IntervalDays:           intervalDays,
		ConfidenceScore:        0.9,
		Status:                 entity.StatusActive,
		FirstOccurrence:        last.AddDate(0, 0, -2*intervalDays),
		LastOccurrence:         last,
		NextExpectedDate:       next,
		OccurrenceCount:        3,
		IsActive:               true,
	}
	if err := repo.Create(context.Background(), pattern); err != nil {
		t.Fatalf("failed to seed pattern: %v", err)
	}
	return pattern
}

func TestSweepStatuses(t *testing.T) {
	ctx := context.Background()
	today := day(200)

	newSweep := func(repo *fakePatternRepo) *SweepStatusesUseCase {
		uc := NewSweepStatusesUseCase(repo)
		uc.now = func() time.Time { return today }
		return uc
	}

	t.Run("long dormant pattern ends", func(t *testing.T) {
		repo := newFakePatternRepo()
		uc := newSweep(repo)
		// Last seen 100 days ago with a 30 day interval: both the overdue
		// and the dormancy thresholds have passed, so the sweep lands on
		// ENDED rather than stopping at IRREGULAR.
		seeded := sweepPattern(t, repo, "netflix", day(100), day(130), 30)

		output, err := uc.Execute(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Swept != 1 || output.Updated != 1 {
			t.Fatalf("expected swept=1 updated=1, got swept=%d updated=%d", output.Swept, output.Updated)
		}

		stored, _ := repo.FindByID(ctx, seeded.ID)
		if stored.Status != entity.StatusEnded {
			t.Errorf("expected status ENDED, got %s", stored.Status)
		}
	})

	t.Run("overdue pattern becomes irregular", func(t *testing.T) {
		repo := newFakePatternRepo()
		uc := newSweep(repo)
		// Overdue by 65 days (more than twice the interval) but last seen
		// 80 days ago, which is still under the 90 day dormancy cutoff.
		seeded := sweepPattern(t, repo, "gym", day(120), day(135), 30)

		output, err := uc.Execute(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Updated != 1 {
			t.Fatalf("expected updated=1, got %d", output.Updated)
		}

		stored, _ := repo.FindByID(ctx, seeded.ID)
		if stored.Status != entity.StatusIrregular {
			t.Errorf("expected status IRREGULAR, got %s", stored.Status)
		}
	})

	t.Run("healthy pattern is untouched", func(t *testing.T) {
		repo := newFakePatternRepo()
		uc := newSweep(repo)
		seeded := sweepPattern(t, repo, "spotify", day(180), day(210), 30)

		output, err := uc.Execute(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Swept != 1 || output.Updated != 0 {
			t.Fatalf("expected swept=1 updated=0, got swept=%d updated=%d", output.Swept, output.Updated)
		}

		stored, _ := repo.FindByID(ctx, seeded.ID)
		if stored.Status != entity.StatusActive {
			t.Errorf("expected status ACTIVE, got %s", stored.Status)
		}
	})

	t.Run("pattern exactly at the overdue boundary stays active", func(t *testing.T) {
		repo := newFakePatternRepo()
		uc := newSweep(repo)
		// Overdue by exactly 60 days with a 30 day interval. The rule is
		// strictly greater than twice the interval, so nothing changes.
		seeded := sweepPattern(t, repo, "water", day(170), day(140), 30)

		if _, err := uc.Execute(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored, _ := repo.FindByID(ctx, seeded.ID)
		if stored.Status != entity.StatusActive {
			t.Errorf("expected status ACTIVE, got %s", stored.Status)
		}
	})

	t.Run("mixed population updates only the stale ones", func(t *testing.T) {
		repo := newFakePatternRepo()
		uc := newSweep(repo)
		healthy := sweepPattern(t, repo, "spotify", day(180), day(210), 30)
		stale := sweepPattern(t, repo, "oldgym", day(80), day(110), 30)

		output, err := uc.Execute(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Swept != 2 || output.Updated != 1 {
			t.Fatalf("expected swept=2 updated=1, got swept=%d updated=%d", output.Swept, output.Updated)
		}

		storedHealthy, _ := repo.FindByID(ctx, healthy.ID)
		if storedHealthy.Status != entity.StatusActive {
			t.Errorf("expected healthy pattern to stay ACTIVE, got %s", storedHealthy.Status)
		}
		storedStale, _ := repo.FindByID(ctx, stale.ID)
		if storedStale.Status != entity.StatusEnded {
			t.Errorf("expected stale pattern ENDED, got %s", storedStale.Status)
		}
	})
}
