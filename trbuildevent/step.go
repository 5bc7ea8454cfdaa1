package trbuildevent

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gentlemanautomaton/structformat"
	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
)

// StepStarted is an event that occurs when a step's operation is about to
// be invoked.
type StepStarted struct {
	Run     uuid.UUID
	Project trbuild.ProjectID
	Plan    trbuild.PlanKind
	Index   int
	Step    trbuild.StepID
	Name    string
}

// Component identifies the component that generated the event.
func (e StepStarted) Component() string {
	return "step"
}

// Level returns the level of the event.
func (e StepStarted) Level() slog.Level {
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e StepStarted) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	builder.WritePrimary(string(e.Plan))
	builder.WritePrimary(strconv.Itoa(e.Index + 1))
	builder.WritePrimary(e.Name)
	builder.WriteStandard("Starting step.")

	return builder.String()
}

// Details returns additional details about the event.
func (e StepStarted) Details() string {
	return ""
}

// Attrs returns a set of structured log attributes for the event.
func (e StepStarted) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("run", e.Run.String()),
		slog.Int64("project", int64(e.Project)),
		slog.String("plan", string(e.Plan)),
		slog.Group("step", "index", e.Index, "id", string(e.Step)),
	}
}

// StepStopped is an event that occurs when a step's result has been
// committed.
//
// Err is set when the operation itself failed. Result holds the response
// of the provisioning service otherwise.
type StepStopped struct {
	Run     uuid.UUID
	Project trbuild.ProjectID
	Plan    trbuild.PlanKind
	Index   int
	Step    trbuild.StepID
	Name    string
	Started time.Time
	Stopped time.Time
	Result  trbuild.Result
	Err     error
}

// Component identifies the component that generated the event.
func (e StepStopped) Component() string {
	return "step"
}

// Succeeded returns true if the step completed.
func (e StepStopped) Succeeded() bool {
	return e.Err == nil && e.Result.Success
}

// Level returns the level of the event.
func (e StepStopped) Level() slog.Level {
	if !e.Succeeded() {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e StepStopped) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	builder.WritePrimary(string(e.Plan))
	builder.WritePrimary(strconv.Itoa(e.Index + 1))
	builder.WritePrimary(e.Name)
	switch {
	case e.Err != nil:
		builder.WriteStandard(fmt.Sprintf("Step failed due to an error: %s.", e.Err))
	case !e.Result.Success && e.Result.Message != "":
		builder.WriteStandard(fmt.Sprintf("Step was rejected by the provisioning service: %s.", e.Result.Message))
	case !e.Result.Success:
		builder.WriteStandard("Step was rejected by the provisioning service.")
	default:
		builder.WriteStandard("Completed step.")
	}
	builder.WriteNote(e.Duration().Round(time.Millisecond).String())

	return builder.String()
}

// Details returns the message returned by the provisioning service, if
// any.
func (e StepStopped) Details() string {
	return e.Result.Message
}

// Attrs returns a set of structured log attributes for the event.
func (e StepStopped) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("run", e.Run.String()),
		slog.Int64("project", int64(e.Project)),
		slog.String("plan", string(e.Plan)),
		slog.Group("step", "index", e.Index, "id", string(e.Step)),
		slog.Time("started", e.Started),
		slog.Time("stopped", e.Stopped),
		slog.Bool("success", e.Succeeded()),
	}
	if e.Result.Message != "" {
		attrs = append(attrs, slog.String("message", e.Result.Message))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// Duration returns the duration of the step, including the settle delay.
func (e StepStopped) Duration() time.Duration {
	return e.Stopped.Sub(e.Started)
}
