package trengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trellisforge/trellis-build/trbuild"
)

// IndexError is returned when a step index is outside the bounds of a run.
// It indicates a programming error and is never retried.
type IndexError struct {
	Index int
	Len   int
}

// Error returns a string describing the error.
func (e IndexError) Error() string {
	return fmt.Sprintf("step index %d is out of range for a run of %d steps", e.Index, e.Len)
}

// StateError is returned when a step is moved through its lifecycle out of
// order. It indicates a programming error and is never retried.
type StateError struct {
	Index int
	State trbuild.StepState
	Want  trbuild.StepState
}

// Error returns a string describing the error.
func (e StateError) Error() string {
	return fmt.Sprintf("step %d is %s but must be %s", e.Index+1, e.State, e.Want)
}

// RunActiveError is returned when a run is rejected because another run is
// already active for the same project.
type RunActiveError struct {
	Project trbuild.ProjectID
	Plan    trbuild.PlanKind

	// System is true when the conflicting run belongs to another process.
	System bool
}

// Error returns a string describing the error.
func (e RunActiveError) Error() string {
	if e.System {
		return fmt.Sprintf("unable to start the \"%s\" run: another process is already running a plan for project %d", e.Plan, e.Project)
	}
	return fmt.Sprintf("unable to start the \"%s\" run: a run is already active for project %d", e.Plan, e.Project)
}

// ResetError is returned when the reset that precedes a full build fails.
// No build steps are attempted.
type ResetError struct {
	Project trbuild.ProjectID
	Result  trbuild.Result
	Err     error
}

// Error returns a string describing the error.
func (e ResetError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("failed to reset root group for project %d: %s", e.Project, e.Err)
	case e.Result.Message != "":
		return fmt.Sprintf("failed to reset root group for project %d: %s", e.Project, e.Result.Message)
	default:
		return fmt.Sprintf("failed to reset root group for project %d", e.Project)
	}
}

// Unwrap returns the underlying error, if any.
func (e ResetError) Unwrap() error {
	return e.Err
}

// RunError is returned when one or more steps of a run did not complete.
type RunError struct {
	Project trbuild.ProjectID
	Plan    trbuild.PlanKind
	Steps   int
	Failed  []StepReport
}

// Error returns a string describing the error.
func (e RunError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, step := range e.Failed {
		names = append(names, fmt.Sprintf("\"%s\"", step.Name))
	}
	return fmt.Sprintf("the \"%s\" run for project %d did not complete: %d of %d steps failed: %s", e.Plan, e.Project, len(e.Failed), e.Steps, strings.Join(names, ", "))
}

// Unwrap returns the transport errors of the failed steps.
func (e RunError) Unwrap() []error {
	var errs []error
	for _, step := range e.Failed {
		if step.err != nil {
			errs = append(errs, step.err)
		}
	}
	return errs
}

// IsProgrammingError returns true if err indicates misuse of a tracker.
func IsProgrammingError(err error) bool {
	var indexErr IndexError
	var stateErr StateError
	return errors.As(err, &indexErr) || errors.As(err, &stateErr)
}
