package trengine

import (
	"context"
	"time"

	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trbuildevent"
	"github.com/trellisforge/trellis-build/trevent"
)

// CheckFileConsistency asks the provisioning service to compare the
// project's repository files against its definition and records the
// outcome.
//
// It returns the service's result. The error is non-nil only when the
// call itself failed.
func CheckFileConsistency(ctx context.Context, checker FileChecker, project trbuild.ProjectID, events trevent.Recorder) (trbuild.Result, error) {
	if err := project.Validate(); err != nil {
		return trbuild.Result{}, err
	}

	started := time.Now()
	result, err := checker.CheckFileConsistency(ctx, project)
	stopped := time.Now()

	events.Record(trbuildevent.FileConsistencyChecked{
		Project: project,
		Started: started,
		Stopped: stopped,
		Result:  result,
		Err:     err,
	})

	return result, err
}
