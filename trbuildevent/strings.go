package trbuildevent

import (
	"fmt"
	"strings"

	"github.com/trellisforge/trellis-build/trbuild"
)

func plural[T ~int | ~int64](value T, singular, plural string) string {
	if value == 1 {
		return singular
	}
	return plural
}

func projectLabel(project trbuild.ProjectID) string {
	return fmt.Sprintf("project %d", project)
}

// outcomeText returns the user-facing summary of a run's outcome.
func outcomeText(plan trbuild.PlanKind, succeeded bool) string {
	switch {
	case succeeded && plan == trbuild.PlanReconcile:
		return "Infrastructure is up to date."
	case succeeded:
		return "Infrastructure has been built."
	case plan == trbuild.PlanReconcile:
		return "Failed to update infrastructure"
	default:
		return "Failed to build infrastructure"
	}
}

// StepFailure describes a step that did not complete.
type StepFailure struct {
	Index  int
	Step   trbuild.StepID
	Name   string
	Reason string
}

// String returns a description of the failure.
func (f StepFailure) String() string {
	if f.Reason == "" {
		return f.Name
	}
	return fmt.Sprintf("%s (%s)", f.Name, f.Reason)
}

func failureNames(failures []StepFailure) string {
	names := make([]string, 0, len(failures))
	for _, failure := range failures {
		names = append(names, failure.Name)
	}
	return strings.Join(names, ", ")
}
