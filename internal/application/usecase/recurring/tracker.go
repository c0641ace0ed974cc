package recurring

import (
	"sync"
	"time"
)

// AnalysisResult summarizes one completed batch analysis run.
type AnalysisResult struct {
	PatternsCreated     int `json:"patterns_created"`
	PatternsUpdated     int `json:"patterns_updated"`
	MerchantsAnalyzed   int `json:"merchants_analyzed"`
	MerchantFailures    int `json:"merchant_failures"`
	TransactionsScanned int `json:"transactions_scanned"`
}

// RunState describes one analysis run tracked by the RunTracker.
type RunState struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Result     *AnalysisResult `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// RunTracker tracks the in-flight and most recently finished analysis runs.
// State is owned by the tracker instance so separate instances (for example
// in tests) never share run state.
type RunTracker struct {
	mu      sync.RWMutex
	current *RunState
	last    *RunState
}

// NewRunTracker creates a new run tracker.
func NewRunTracker() *RunTracker {
	return &RunTracker{}
}

// Begin registers a new run. It returns false when a run is already in
// flight, in which case the new run must not start.
func (t *RunTracker) Begin(runID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		return false
	}
	t.current = &RunState{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
	}
	return true
}

// Finish completes the in-flight run with its result or error.
func (t *RunTracker) Finish(result *AnalysisResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	now := time.Now().UTC()
	t.current.FinishedAt = &now
	t.current.Result = result
	if err != nil {
		t.current.Error = err.Error()
	}
	t.last = t.current
	t.current = nil
}

// IsRunning reports whether a run is currently in flight.
func (t *RunTracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current != nil
}

// Current returns a copy of the in-flight run state, or nil.
func (t *RunTracker) Current() *RunState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return nil
	}
	state := *t.current
	return &state
}

// Last returns a copy of the most recently finished run state, or nil.
func (t *RunTracker) Last() *RunState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return nil
	}
	state := *t.last
	return &state
}
