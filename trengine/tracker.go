package trengine

import (
	"slices"
	"sync"

	"github.com/trellisforge/trellis-build/trbuild"
)

// Tracker holds the status of each step in a run, along with the run's
// progress.
//
// Only the engine running the plan mutates a tracker. Observers may read
// from it concurrently.
type Tracker struct {
	mu       sync.RWMutex
	statuses []trbuild.StepStatus
	current  int
}

// NewTracker returns a tracker sized for the given number of steps.
func NewTracker(steps int) *Tracker {
	t := &Tracker{}
	t.Reset(steps)
	return t
}

// Reset discards all step statuses and prepares the tracker for a new run
// of the given number of steps.
func (t *Tracker) Reset(steps int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.statuses = make([]trbuild.StepStatus, steps)
	t.current = 0
}

// Len returns the number of steps being tracked.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.statuses)
}

// BeginStep marks step i as running.
//
// It returns an IndexError if i is out of range and a StateError if the
// step has already started.
func (t *Tracker) BeginStep(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.statuses) {
		return IndexError{Index: i, Len: len(t.statuses)}
	}
	if state := t.statuses[i].State; state != trbuild.StepPending {
		return StateError{Index: i, State: state, Want: trbuild.StepPending}
	}
	t.statuses[i] = trbuild.StepStatus{State: trbuild.StepRunning}

	return nil
}

// FinishStep commits the outcome of step i and advances the run's progress.
// The progress counter advances whether or not the step succeeded.
//
// If another step follows, it is queued so that observers can display it
// as in progress before its operation is dispatched.
//
// It returns an IndexError if i is out of range and a StateError if the
// step is not running.
func (t *Tracker) FinishStep(i int, success bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.statuses) {
		return IndexError{Index: i, Len: len(t.statuses)}
	}
	if state := t.statuses[i].State; state != trbuild.StepRunning {
		return StateError{Index: i, State: state, Want: trbuild.StepRunning}
	}

	if success {
		t.statuses[i] = trbuild.StepStatus{State: trbuild.StepCompleted}
	} else {
		t.statuses[i] = trbuild.StepStatus{State: trbuild.StepFailed}
	}
	t.current++

	if next := i + 1; next < len(t.statuses) && t.statuses[next].State == trbuild.StepPending {
		t.statuses[next].Queued = true
	}

	return nil
}

// Status returns the status of step i. It returns an IndexError if i is out
// of range.
func (t *Tracker) Status(i int) (trbuild.StepStatus, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i < 0 || i >= len(t.statuses) {
		return trbuild.StepStatus{}, IndexError{Index: i, Len: len(t.statuses)}
	}
	return t.statuses[i], nil
}

// Current returns the number of steps that have finished, successfully or
// not.
func (t *Tracker) Current() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.current
}

// AllCompleted returns true if every step completed successfully. It
// returns false if there are no steps.
func (t *Tracker) AllCompleted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.allCompleted()
}

func (t *Tracker) allCompleted() bool {
	if len(t.statuses) == 0 {
		return false
	}
	for _, status := range t.statuses {
		if !status.Completed() {
			return false
		}
	}
	return true
}

// WorkflowCompleted returns true once every step has finished and all of
// them completed successfully.
func (t *Tracker) WorkflowCompleted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.current == len(t.statuses) && t.allCompleted()
}

// Snapshot returns a copy of the current step statuses.
func (t *Tracker) Snapshot() []trbuild.StepStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.statuses)
}
