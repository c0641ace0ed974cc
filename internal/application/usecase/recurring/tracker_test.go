package recurring

import (
	"errors"
	"sync"
	"testing"
)

func TestRunTracker(t *testing.T) {
	t.Run("begin registers the run", func(t *testing.T) {
		tracker := NewRunTracker()

		if !tracker.Begin("run-1") {
			t.Fatal("expected Begin to succeed on idle tracker")
		}
		if !tracker.IsRunning() {
			t.Error("expected IsRunning to be true")
		}
		if current := tracker.Current(); current == nil || current.RunID != "run-1" {
			t.Errorf("expected current run run-1, got %+v", current)
		}
	})

	t.Run("second begin is rejected while running", func(t *testing.T) {
		tracker := NewRunTracker()
		tracker.Begin("run-1")

		if tracker.Begin("run-2") {
			t.Error("expected Begin to fail while a run is in flight")
		}
	})

	t.Run("finish moves the run to last", func(t *testing.T) {
		tracker := NewRunTracker()
		tracker.Begin("run-1")

		result := &AnalysisResult{PatternsCreated: 2, MerchantsAnalyzed: 3}
		tracker.Finish(result, nil)

		if tracker.IsRunning() {
			t.Error("expected IsRunning to be false after Finish")
		}
		if tracker.Current() != nil {
			t.Error("expected no current run after Finish")
		}

		last := tracker.Last()
		if last == nil {
			t.Fatal("expected a last run")
		}
		if last.RunID != "run-1" {
			t.Errorf("expected last run run-1, got %s", last.RunID)
		}
		if last.FinishedAt == nil {
			t.Error("expected FinishedAt to be set")
		}
		if last.Result == nil || last.Result.PatternsCreated != 2 {
			t.Errorf("expected result with 2 patterns created, got %+v", last.Result)
		}
		if last.Error != "" {
			t.Errorf("expected no error, got %q", last.Error)
		}
	})

	t.Run("finish records the error", func(t *testing.T) {
		tracker := NewRunTracker()
		tracker.Begin("run-1")
		tracker.Finish(nil, errors.New("window scan failed"))

		last := tracker.Last()
		if last == nil {
			t.Fatal("expected a last run")
		}
		if last.Error != "window scan failed" {
			t.Errorf("expected error message, got %q", last.Error)
		}
	})

	t.Run("returned states are copies", func(t *testing.T) {
		tracker := NewRunTracker()
		tracker.Begin("run-1")

		current := tracker.Current()
		current.RunID = "mutated"

		if fresh := tracker.Current(); fresh.RunID != "run-1" {
			t.Errorf("expected tracker state to be isolated, got %s", fresh.RunID)
		}
	})

	t.Run("only one concurrent begin wins", func(t *testing.T) {
		tracker := NewRunTracker()

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if tracker.Begin("run") {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if wins != 1 {
			t.Errorf("expected exactly 1 winning Begin, got %d", wins)
		}
	})
}
