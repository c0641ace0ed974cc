// Package worker runs the background jobs of the recurring detection pipeline.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/budget-planner/backend/internal/application/usecase/recurring"
)

// Sweeper periodically advances pattern lifecycle statuses: active patterns
// that went quiet are marked irregular, and long-dormant ones are ended.
type Sweeper struct {
	sweepUseCase *recurring.SweepStatusesUseCase
	interval     time.Duration
}

// NewSweeper creates a new status sweeper.
func NewSweeper(sweepUseCase *recurring.SweepStatusesUseCase, interval time.Duration) *Sweeper {
	return &Sweeper{
		sweepUseCase: sweepUseCase,
		interval:     interval,
	}
}

// Start begins the sweep loop. It blocks until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("Status sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep immediately on start, then on ticker
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Status sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one pass over the active patterns.
func (s *Sweeper) sweep(ctx context.Context) {
	output, err := s.sweepUseCase.Execute(ctx)
	if err != nil {
		slog.Error("Status sweep failed", "error", err)
		return
	}

	if output.Updated > 0 {
		slog.Info("Status sweep finished",
			"swept", output.Swept,
			"updated", output.Updated,
		)
	}
}
