package recurring

import "context"

// GetAnalysisStatusOutput represents the output of the analysis status query.
type GetAnalysisStatusOutput struct {
	IsRunning  bool      `json:"is_running"`
	CurrentRun *RunState `json:"current_run,omitempty"`
	LastRun    *RunState `json:"last_run,omitempty"`
}

// GetAnalysisStatusUseCase reports the state of the batch analysis runs.
type GetAnalysisStatusUseCase struct {
	tracker *RunTracker
}

// NewGetAnalysisStatusUseCase creates a new GetAnalysisStatusUseCase instance.
func NewGetAnalysisStatusUseCase(tracker *RunTracker) *GetAnalysisStatusUseCase {
	return &GetAnalysisStatusUseCase{tracker: tracker}
}

// Execute returns the current and last analysis run states.
func (uc *GetAnalysisStatusUseCase) Execute(_ context.Context) (*GetAnalysisStatusOutput, error) {
	return &GetAnalysisStatusOutput{
		IsRunning:  uc.tracker.IsRunning(),
		CurrentRun: uc.tracker.Current(),
		LastRun:    uc.tracker.Last(),
	}, nil
}
