package trbuildevent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gentlemanautomaton/structformat"
	"github.com/gentlemanautomaton/structformat/fieldformat"
	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
)

// ResetStarted is an event that occurs when a project's root group is about
// to be reset ahead of a full build.
type ResetStarted struct {
	Run     uuid.UUID
	Project trbuild.ProjectID
}

// Component identifies the component that generated the event.
func (e ResetStarted) Component() string {
	return "reset"
}

// Level returns the level of the event.
func (e ResetStarted) Level() slog.Level {
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e ResetStarted) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	builder.WriteStandard("Resetting root group.")

	return builder.String()
}

// Details returns additional details about the event.
func (e ResetStarted) Details() string {
	return ""
}

// Attrs returns a set of structured log attributes for the event.
func (e ResetStarted) Attrs() []slog.Attr {
	return []slog.Attr{
		slog.String("run", e.Run.String()),
		slog.Int64("project", int64(e.Project)),
	}
}

// ResetStopped is an event that occurs when a reset has finished.
//
// Delay is the wait applied before the build starts. It is zero when the
// reset failed.
type ResetStopped struct {
	Run     uuid.UUID
	Project trbuild.ProjectID
	Started time.Time
	Stopped time.Time
	Result  trbuild.Result
	Err     error
	Delay   time.Duration
}

// Component identifies the component that generated the event.
func (e ResetStopped) Component() string {
	return "reset"
}

// Succeeded returns true if the reset succeeded.
func (e ResetStopped) Succeeded() bool {
	return e.Err == nil && e.Result.Success
}

// Level returns the level of the event.
func (e ResetStopped) Level() slog.Level {
	if !e.Succeeded() {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e ResetStopped) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	switch {
	case e.Err != nil:
		builder.WriteStandard(fmt.Sprintf("Failed to reset root group: %s.", e.Err))
	case !e.Result.Success && e.Result.Message != "":
		builder.WriteStandard(fmt.Sprintf("Failed to reset root group: %s.", e.Result.Message))
	case !e.Result.Success:
		builder.WriteStandard("Failed to reset root group.")
	default:
		builder.WriteStandard("Root group has been reset, building will start shortly.")
		builder.WriteNote(e.Delay.String(), fieldformat.Label("delay"))
	}
	builder.WriteNote(e.Duration().Round(time.Millisecond).String())

	return builder.String()
}

// Details returns the message returned by the provisioning service, if
// any.
func (e ResetStopped) Details() string {
	return e.Result.Message
}

// Attrs returns a set of structured log attributes for the event.
func (e ResetStopped) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("run", e.Run.String()),
		slog.Int64("project", int64(e.Project)),
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

// Duration returns the duration of the reset call.
func (e ResetStopped) Duration() time.Duration {
	return e.Stopped.Sub(e.Started)
}
