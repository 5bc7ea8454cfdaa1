package trengine

import (
	"errors"
	"testing"
)

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewTracker(3)

	if tracker.AllCompleted() {
		t.Fatalf("a new tracker reported that all steps completed")
	}

	if err := tracker.BeginStep(0); err != nil {
		t.Fatalf("BeginStep(0): %v", err)
	}
	if status, _ := tracker.Status(0); !status.InProgress() {
		t.Fatalf("step 0 is %s but should be in progress", status)
	}
	if err := tracker.FinishStep(0, true); err != nil {
		t.Fatalf("FinishStep(0): %v", err)
	}

	status, _ := tracker.Status(1)
	if !status.Queued || !status.InProgress() {
		t.Fatalf("step 1 is %s but should be queued", status)
	}
	if status.Completed() || status.Failure() {
		t.Fatalf("a queued step must be neither completed nor failed")
	}

	if err := tracker.BeginStep(1); err != nil {
		t.Fatalf("BeginStep(1): %v", err)
	}
	if err := tracker.FinishStep(1, false); err != nil {
		t.Fatalf("FinishStep(1): %v", err)
	}
	if err := tracker.BeginStep(2); err != nil {
		t.Fatalf("BeginStep(2): %v", err)
	}
	if err := tracker.FinishStep(2, true); err != nil {
		t.Fatalf("FinishStep(2): %v", err)
	}

	if got := tracker.Current(); got != 3 {
		t.Fatalf("Current() = %d, want 3", got)
	}
	if tracker.WorkflowCompleted() {
		t.Fatalf("the workflow completed even though step 1 failed")
	}

	for i, status := range tracker.Snapshot() {
		if status.Completed() && status.Failure() {
			t.Fatalf("step %d is both completed and failed", i)
		}
		if status.InProgress() {
			t.Fatalf("step %d is still in progress after the run", i)
		}
	}
}

func TestTrackerWorkflowCompleted(t *testing.T) {
	tracker := NewTracker(2)
	for i := 0; i < 2; i++ {
		if err := tracker.BeginStep(i); err != nil {
			t.Fatalf("BeginStep(%d): %v", i, err)
		}
		if tracker.WorkflowCompleted() {
			t.Fatalf("the workflow completed before step %d finished", i)
		}
		if err := tracker.FinishStep(i, true); err != nil {
			t.Fatalf("FinishStep(%d): %v", i, err)
		}
	}
	if !tracker.WorkflowCompleted() {
		t.Fatalf("the workflow did not complete")
	}

	tracker.Reset(4)
	if tracker.Len() != 4 || tracker.Current() != 0 || tracker.AllCompleted() {
		t.Fatalf("Reset did not clear the tracker")
	}
}

func TestTrackerIndexError(t *testing.T) {
	tracker := NewTracker(7)

	for _, index := range []int{-1, 7, 12} {
		var indexErr IndexError
		if err := tracker.BeginStep(index); !errors.As(err, &indexErr) {
			t.Fatalf("BeginStep(%d): got %v, want IndexError", index, err)
		}
		if err := tracker.FinishStep(index, true); !errors.As(err, &indexErr) {
			t.Fatalf("FinishStep(%d): got %v, want IndexError", index, err)
		}
		if _, err := tracker.Status(index); !IsProgrammingError(err) {
			t.Fatalf("Status(%d): got %v, want a programming error", index, err)
		}
	}
	if tracker.Current() != 0 {
		t.Fatalf("an out of range step advanced the tracker")
	}
}

func TestTrackerStateError(t *testing.T) {
	tracker := NewTracker(2)

	var stateErr StateError
	if err := tracker.FinishStep(0, true); !errors.As(err, &stateErr) {
		t.Fatalf("finishing a pending step: got %v, want StateError", err)
	}
	if err := tracker.BeginStep(0); err != nil {
		t.Fatalf("BeginStep(0): %v", err)
	}
	if err := tracker.BeginStep(0); !errors.As(err, &stateErr) {
		t.Fatalf("starting a running step: got %v, want StateError", err)
	}
	if err := tracker.FinishStep(0, true); err != nil {
		t.Fatalf("FinishStep(0): %v", err)
	}
	if err := tracker.FinishStep(0, true); !IsProgrammingError(err) {
		t.Fatalf("finishing a step twice: got %v, want a programming error", err)
	}
	if tracker.Current() != 1 {
		t.Fatalf("Current() = %d, want 1", tracker.Current())
	}
}
