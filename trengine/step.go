package trengine

import (
	"context"
	"fmt"
	"time"

	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trbuildevent"
)

// stepOutcome holds the result of a step's operation.
type stepOutcome struct {
	Result trbuild.Result
	Err    error
}

// stepEngine manages execution of a single step within a run.
type stepEngine struct {
	run     *runEngine
	index   int
	step    trbuild.Step
	tracker *Tracker
}

// Invoke runs the step's operation and commits its outcome to the tracker.
//
// A failed operation is not an error. The returned error is only non-nil
// when the tracker rejects the step, which indicates a programming error.
func (engine *stepEngine) Invoke(ctx context.Context) (stepOutcome, error) {
	if err := engine.tracker.BeginStep(engine.index); err != nil {
		return stepOutcome{}, err
	}

	// Record the start of the step.
	engine.run.events.Record(trbuildevent.StepStarted{
		Run:     engine.run.id,
		Project: engine.run.project,
		Plan:    engine.run.plan,
		Index:   engine.index,
		Step:    engine.step.ID,
		Name:    engine.step.Name,
	})

	started := time.Now()

	// Invoke the remote operation and wait for its result.
	outcome := engine.operate(ctx)

	// Let the provisioning service settle before the result is committed.
	engine.run.sleep(ctx, engine.run.timing.SettleDelay.Std())

	success := outcome.Err == nil && outcome.Result.Success
	if err := engine.tracker.FinishStep(engine.index, success); err != nil {
		return stepOutcome{}, err
	}

	stopped := time.Now()

	// Record the end of the step.
	engine.run.events.Record(trbuildevent.StepStopped{
		Run:     engine.run.id,
		Project: engine.run.project,
		Plan:    engine.run.plan,
		Index:   engine.index,
		Step:    engine.step.ID,
		Name:    engine.step.Name,
		Started: started,
		Stopped: stopped,
		Result:  outcome.Result,
		Err:     outcome.Err,
	})

	return outcome, nil
}

// operate calls the step's operation. A panic within the operation is
// returned as the outcome's error so that the run can continue.
func (engine *stepEngine) operate(ctx context.Context) (outcome stepOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = stepOutcome{Err: fmt.Errorf("the \"%s\" step panicked: %v", engine.step.ID, r)}
		}
	}()

	outcome.Result, outcome.Err = engine.step.Operation(ctx)
	return outcome
}
