package trengine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trbuildevent"
	"github.com/trellisforge/trellis-build/trevent"
)

// resetEngine manages the reset that precedes a full build.
type resetEngine struct {
	run     uuid.UUID
	project trbuild.ProjectID
	events  trevent.Recorder
	delay   time.Duration
}

// Invoke resets the project's root group. It returns a ResetError if the
// call fails or the provisioning service reports a failure.
func (engine resetEngine) Invoke(ctx context.Context, svc Service) (ResetReport, error) {
	engine.events.Record(trbuildevent.ResetStarted{
		Run:     engine.run,
		Project: engine.project,
	})

	started := time.Now()
	result, err := svc.ResetRootGroup(ctx, engine.project)
	stopped := time.Now()

	report := ResetReport{
		Success: err == nil && result.Success,
		Message: result.Message,
	}
	if err != nil {
		report.Error = err.Error()
	}

	event := trbuildevent.ResetStopped{
		Run:     engine.run,
		Project: engine.project,
		Started: started,
		Stopped: stopped,
		Result:  result,
		Err:     err,
	}
	if report.Success {
		event.Delay = engine.delay
	}
	engine.events.Record(event)

	if !report.Success {
		return report, ResetError{
			Project: engine.project,
			Result:  result,
			Err:     err,
		}
	}

	return report, nil
}
