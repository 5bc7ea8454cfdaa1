package trbuildevent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gentlemanautomaton/structformat"
	"github.com/trellisforge/trellis-build/trbuild"
)

// FileConsistencyChecked is an event that occurs when the repository files
// of a project have been compared against the project's definition.
type FileConsistencyChecked struct {
	Project trbuild.ProjectID
	Started time.Time
	Stopped time.Time
	Result  trbuild.Result
	Err     error
}

// Component identifies the component that generated the event.
func (e FileConsistencyChecked) Component() string {
	return "check"
}

// Succeeded returns true if the files are consistent.
func (e FileConsistencyChecked) Succeeded() bool {
	return e.Err == nil && e.Result.Success
}

// Level returns the level of the event.
func (e FileConsistencyChecked) Level() slog.Level {
	if !e.Succeeded() {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Message returns a description of the event.
func (e FileConsistencyChecked) Message() string {
	var builder structformat.Builder

	builder.WritePrimary(projectLabel(e.Project))
	switch {
	case e.Err != nil:
		builder.WriteStandard(fmt.Sprintf("Unable to perform file consistency check: %s.", e.Err))
	case !e.Result.Success:
		builder.WriteStandard("File consistency check failed.")
	default:
		builder.WriteStandard("File consistency check successful.")
	}
	builder.WriteNote(e.Stopped.Sub(e.Started).Round(time.Millisecond).String())

	return builder.String()
}

// Details returns the inconsistencies reported by the provisioning
// service, if any.
func (e FileConsistencyChecked) Details() string {
	return e.Result.Message
}

// Attrs returns a set of structured log attributes for the event.
func (e FileConsistencyChecked) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("project", int64(e.Project)),
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
