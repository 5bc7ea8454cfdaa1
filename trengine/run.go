package trengine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trbuildevent"
	"github.com/trellisforge/trellis-build/trevent"
)

// runEngine manages a single run of a plan for a project.
type runEngine struct {
	id      uuid.UUID
	project trbuild.ProjectID
	plan    trbuild.PlanKind
	events  trevent.Recorder
	timing  trbuild.Timing
	sleep   func(ctx context.Context, d time.Duration)
	tracker *Tracker

	mu        sync.Mutex
	steps     []trbuild.StepDef
	resetting bool
}

// Invoke runs the given plan.
func (run *runEngine) Invoke(ctx context.Context, plan trbuild.Plan) (Report, error) {
	report := run.newReport()
	run.setSteps(plan.Defs())

	run.events.Record(trbuildevent.RunStarted{
		Run:     run.id,
		Project: run.project,
		Plan:    run.plan,
		Steps:   plan.Defs(),
	})

	return run.execute(ctx, plan, report)
}

// InvokeWithReset resets the project's root group and, if the reset
// succeeds, waits for the reset delay and then runs a freshly built full
// build plan.
func (run *runEngine) InvokeWithReset(ctx context.Context, svc Service) (Report, error) {
	report := run.newReport()

	defs, err := Definitions(trbuild.PlanFullBuild)
	if err != nil {
		return report, err
	}
	run.setSteps(defs)
	report.Steps = pendingSteps(defs)

	run.events.Record(trbuildevent.RunStarted{
		Run:     run.id,
		Project: run.project,
		Plan:    run.plan,
		Steps:   defs,
	})

	// Reset the root group. Nothing else happens unless it succeeds.
	run.setResetting(true)
	re := resetEngine{
		run:     run.id,
		project: run.project,
		events:  run.events,
		delay:   run.timing.ResetDelay.Std(),
	}
	reset, err := re.Invoke(ctx, svc)
	run.setResetting(false)
	report.Reset = &reset

	if err != nil {
		return run.abort(report, err)
	}

	// Give the provisioning service time to settle after the reset.
	run.sleep(ctx, run.timing.ResetDelay.Std())

	// Build the plan only now that the reset is known to have succeeded.
	plan, err := NewPlan(trbuild.PlanFullBuild, run.project, svc)
	if err != nil {
		return run.abort(report, err)
	}

	return run.execute(ctx, plan, report)
}

// execute attempts every step of the plan in order and completes the
// report.
func (run *runEngine) execute(ctx context.Context, plan trbuild.Plan, report Report) (Report, error) {
	run.tracker.Reset(len(plan.Steps))
	report.Steps = pendingSteps(plan.Defs())

	// Execute each step in the plan. A step that fails does not stop the
	// run. Only misuse of the tracker does.
	for i, step := range plan.Steps {
		se := stepEngine{
			run:     run,
			index:   i,
			step:    step,
			tracker: run.tracker,
		}

		outcome, err := se.Invoke(ctx)
		if err != nil {
			report.CurrentStep = run.tracker.Current()
			return run.abort(report, err)
		}

		report.Steps[i].Message = outcome.Result.Message
		if outcome.Err != nil {
			report.Steps[i].Error = outcome.Err.Error()
			report.Steps[i].err = outcome.Err
		}
	}

	// Collect the final state of the run.
	for i, status := range run.tracker.Snapshot() {
		report.Steps[i].Status = status
	}
	report.CurrentStep = run.tracker.Current()
	report.Completed = run.tracker.WorkflowCompleted()
	if report.Completed {
		switch run.plan {
		case trbuild.PlanFullBuild:
			report.ProvisioningCompleted = true
		case trbuild.PlanReconcile:
			report.UpToDate = true
		}
	}
	report.Stopped = time.Now()

	// Decide the aggregate outcome once, after every step has finished.
	failures := report.Failures()
	var err error
	if !report.Completed {
		err = RunError{
			Project: run.project,
			Plan:    run.plan,
			Steps:   len(report.Steps),
			Failed:  failures,
		}
	}

	run.events.Record(trbuildevent.RunStopped{
		Run:       run.id,
		Project:   run.project,
		Plan:      run.plan,
		Started:   report.Started,
		Stopped:   report.Stopped,
		Attempted: report.CurrentStep,
		Completed: report.CurrentStep - len(failures),
		Failures:  eventFailures(report.Steps),
	})

	return report, err
}

// abort ends the run early because of err, recording the end of the run.
func (run *runEngine) abort(report Report, err error) (Report, error) {
	report.Stopped = time.Now()
	run.events.Record(trbuildevent.RunStopped{
		Run:       run.id,
		Project:   run.project,
		Plan:      run.plan,
		Started:   report.Started,
		Stopped:   report.Stopped,
		Attempted: report.CurrentStep,
		Err:       err,
	})
	return report, err
}

// Progress returns a read-only view of the run.
func (run *runEngine) Progress() Progress {
	run.mu.Lock()
	steps := run.steps
	resetting := run.resetting
	run.mu.Unlock()

	return Progress{
		Run:               run.id,
		Project:           run.project,
		Plan:              run.plan,
		Resetting:         resetting,
		Steps:             steps,
		Statuses:          run.tracker.Snapshot(),
		Current:           run.tracker.Current(),
		WorkflowCompleted: run.tracker.WorkflowCompleted(),
	}
}

func (run *runEngine) newReport() Report {
	return Report{
		Run:     run.id,
		Project: run.project,
		Plan:    run.plan,
		Started: time.Now(),
	}
}

func (run *runEngine) setSteps(steps []trbuild.StepDef) {
	run.mu.Lock()
	defer run.mu.Unlock()
	run.steps = steps
}

func (run *runEngine) setResetting(resetting bool) {
	run.mu.Lock()
	defer run.mu.Unlock()
	run.resetting = resetting
}

func pendingSteps(defs []trbuild.StepDef) []StepReport {
	steps := make([]StepReport, 0, len(defs))
	for _, def := range defs {
		steps = append(steps, StepReport{ID: def.ID, Name: def.Name})
	}
	return steps
}

func eventFailures(steps []StepReport) []trbuildevent.StepFailure {
	var failures []trbuildevent.StepFailure
	for i, step := range steps {
		if !step.Status.Failure() {
			continue
		}
		failures = append(failures, trbuildevent.StepFailure{
			Index:  i,
			Step:   step.ID,
			Name:   step.Name,
			Reason: step.Reason(),
		})
	}
	return failures
}
