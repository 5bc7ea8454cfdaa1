package trbuildevent

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gentlemanautomaton/structformat"
	"github.com/gentlemanautomaton/structformat/fieldformat"
	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
)

// RunStarted is an event that occurs when a plan has started running.
type RunStarted struct {
	Run     uuid.UUID
	Project trbuild.ProjectID
	Plan    trbuild.PlanKind
	Steps   []trbuild.StepDef
}

// Component identifies the component that generated the event.
func (e RunStarted) Component() string {
	return "run"
}

// Level returns the level of the event.
func (e RunStarted) Level() slog.Level {
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e RunStarted) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	builder.WritePrimary(string(e.Plan))
	builder.WriteStandard(fmt.Sprintf("Starting %d %s", len(e.Steps), plural(len(e.Steps), "step", "steps")))
	builder.WriteNote(e.Run.String(), fieldformat.Label("run"))

	return builder.String()
}

// Details returns the ordered list of steps in the run.
func (e RunStarted) Details() string {
	var b strings.Builder
	for i, step := range e.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step.Name)
	}
	return b.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e RunStarted) Attrs() []slog.Attr {
	ids := make([]string, 0, len(e.Steps))
	for _, step := range e.Steps {
		ids = append(ids, string(step.ID))
	}
	return []slog.Attr{
		slog.String("run", e.Run.String()),
		slog.Int64("project", int64(e.Project)),
		slog.String("plan", string(e.Plan)),
		slog.Any("steps", ids),
	}
}

// RunStopped is an event that occurs when every step of a plan has been
// attempted, or when a run ended before its first step.
type RunStopped struct {
	Run       uuid.UUID
	Project   trbuild.ProjectID
	Plan      trbuild.PlanKind
	Started   time.Time
	Stopped   time.Time
	Attempted int
	Completed int
	Failures  []StepFailure
	Err       error
}

// Component identifies the component that generated the event.
func (e RunStopped) Component() string {
	return "run"
}

// Succeeded returns true if every step of the run completed.
func (e RunStopped) Succeeded() bool {
	return e.Err == nil && len(e.Failures) == 0
}

// Level returns the level of the event.
func (e RunStopped) Level() slog.Level {
	if !e.Succeeded() {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e RunStopped) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	builder.WritePrimary(string(e.Plan))
	switch {
	case e.Succeeded():
		builder.WriteStandard(outcomeText(e.Plan, true))
	case len(e.Failures) > 0:
		builder.WriteStandard(fmt.Sprintf("%s: %d of %d %s failed: %s.", outcomeText(e.Plan, false), len(e.Failures), e.Attempted, plural(e.Attempted, "step", "steps"), failureNames(e.Failures)))
	default:
		builder.WriteStandard(fmt.Sprintf("%s: %s.", outcomeText(e.Plan, false), e.Err))
	}
	builder.WriteNote(e.Duration().Round(time.Millisecond * 10).String())

	return builder.String()
}

// Details returns the reason for each failed step.
func (e RunStopped) Details() string {
	var b strings.Builder
	for _, failure := range e.Failures {
		fmt.Fprintf(&b, "%d. %s\n", failure.Index+1, failure)
	}
	return b.String()
}

// Attrs returns a set of structured log attributes for the event.
func (e RunStopped) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("run", e.Run.String()),
		slog.Int64("project", int64(e.Project)),
		slog.String("plan", string(e.Plan)),
		slog.Time("started", e.Started),
		slog.Time("stopped", e.Stopped),
		slog.Group("steps", "attempted", e.Attempted, "completed", e.Completed, "failed", len(e.Failures)),
	}
	if len(e.Failures) > 0 {
		ids := make([]string, 0, len(e.Failures))
		for _, failure := range e.Failures {
			ids = append(ids, string(failure.Step))
		}
		attrs = append(attrs, slog.Any("failed", ids))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// Duration returns the duration of the run.
func (e RunStopped) Duration() time.Duration {
	return e.Stopped.Sub(e.Started)
}

// RunAlreadyActive is an event that occurs when a run cannot be started
// because another run is already active for the same project.
type RunAlreadyActive struct {
	Project trbuild.ProjectID
	Plan    trbuild.PlanKind
	Err     error
}

// Component identifies the component that generated the event.
func (e RunAlreadyActive) Component() string {
	return "run"
}

// Level returns the level of the event.
func (e RunAlreadyActive) Level() slog.Level {
	return slog.LevelError
}

// Message returns a description of the event.
func (e RunAlreadyActive) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	builder.WritePrimary(string(e.Plan))
	if e.Err != nil {
		builder.WriteStandard(fmt.Sprintf("Unable to start the run: %s", e.Err))
	} else {
		builder.WriteStandard("Unable to start the run. Another run is already active for this project.")
	}

	return builder.String()
}

// Details returns additional details about the event.
func (e RunAlreadyActive) Details() string {
	return ""
}

// Attrs returns a set of structured log attributes for the event.
func (e RunAlreadyActive) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("project", int64(e.Project)),
		slog.String("plan", string(e.Plan)),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}
