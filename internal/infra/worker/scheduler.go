package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/budget-planner/backend/internal/application/usecase/recurring"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
)

// AnalysisScheduler periodically runs the batch detection over the trailing
// transaction window, so patterns stay current even when nobody triggers the
// analysis by hand.
type AnalysisScheduler struct {
	analyzeUseCase *recurring.AnalyzeTransactionsUseCase
	interval       time.Duration
}

// NewAnalysisScheduler creates a new analysis scheduler.
func NewAnalysisScheduler(analyzeUseCase *recurring.AnalyzeTransactionsUseCase, interval time.Duration) *AnalysisScheduler {
	return &AnalysisScheduler{
		analyzeUseCase: analyzeUseCase,
		interval:       interval,
	}
}

// Start begins the scheduling loop. It blocks until the context is cancelled.
func (s *AnalysisScheduler) Start(ctx context.Context) {
	slog.Info("Analysis scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Analysis scheduler shutting down")
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

// run kicks off one scheduled analysis. A run already in flight is left
// alone; the next tick will try again.
func (s *AnalysisScheduler) run(ctx context.Context) {
	output, err := s.analyzeUseCase.Execute(ctx, recurring.AnalyzeTransactionsInput{})
	if err != nil {
		var recurringErr *domainerror.RecurringError
		if errors.As(err, &recurringErr) && recurringErr.Code == domainerror.ErrCodeAnalysisAlreadyRunning {
			slog.Debug("Skipping scheduled analysis, a run is already in progress")
			return
		}
		slog.Error("Scheduled analysis failed to start", "error", err)
		return
	}

	slog.Info("Scheduled analysis started", "run_id", output.RunID)
}
