package trengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trellisforge/trellis-build/idset"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trevent"
)

// Options hold configuration for a build engine.
type Options struct {
	Events trevent.Recorder
	Timing trbuild.Timing

	// Sleep waits for the given duration. If nil, the engine waits on a
	// timer and stops waiting early if ctx is cancelled.
	Sleep func(ctx context.Context, d time.Duration)
}

// Engine runs provisioning plans against a provisioning service.
//
// An engine may be shared by multiple goroutines. It refuses to start a
// second run for a project while one is already active.
type Engine struct {
	service Service
	events  trevent.Recorder
	timing  trbuild.Timing
	sleep   func(ctx context.Context, d time.Duration)
	state   *engineState

	// lockSystem acquires the system-wide lock for a project.
	lockSystem func(trbuild.ProjectID) (systemLock, error)
}

// NewEngine returns a new build engine that sends its remote operations to
// svc.
func NewEngine(svc Service, opts Options) *Engine {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return &Engine{
		service: svc,
		events:  opts.Events,
		timing:  opts.Timing.WithDefaults(),
		sleep:   sleep,
		state:   newEngineState(),

		lockSystem: acquireSystemLock,
	}
}

// Build resets the project's root group and then runs the full build plan.
//
// If the reset fails, no build steps are attempted and a ResetError is
// returned. If any build step fails, the remaining steps still run and a
// RunError is returned once all of them have been attempted. The report is
// returned in both cases.
func (engine *Engine) Build(ctx context.Context, project trbuild.ProjectID) (Report, error) {
	if err := project.Validate(); err != nil {
		return Report{}, err
	}
	if engine.service == nil {
		return Report{}, errors.New("a provisioning service is required to run the \"full-build\" plan")
	}

	run, release, err := engine.acquire(project, trbuild.PlanFullBuild)
	if err != nil {
		return Report{}, err
	}
	defer release()

	return run.InvokeWithReset(ctx, engine.service)
}

// Reconcile runs the reconcile plan for a project that has already been
// provisioned.
func (engine *Engine) Reconcile(ctx context.Context, project trbuild.ProjectID) (Report, error) {
	plan, err := NewPlan(trbuild.PlanReconcile, project, engine.service)
	if err != nil {
		return Report{}, err
	}
	return engine.Run(ctx, plan)
}

// Run executes the steps of the given plan in order. Every step is
// attempted exactly once, regardless of the outcome of earlier steps.
func (engine *Engine) Run(ctx context.Context, plan trbuild.Plan) (Report, error) {
	if err := plan.Validate(); err != nil {
		return Report{}, fmt.Errorf("unable to run the plan: %w", err)
	}

	run, release, err := engine.acquire(plan.Project, plan.Kind)
	if err != nil {
		return Report{}, err
	}
	defer release()

	return run.Invoke(ctx, plan)
}

// Progress returns the progress of the run that is currently active for
// the project. It returns false if no run is active.
func (engine *Engine) Progress(project trbuild.ProjectID) (Progress, bool) {
	engine.state.mu.Lock()
	run, ok := engine.state.runs[project]
	engine.state.mu.Unlock()

	if !ok {
		return Progress{}, false
	}
	return run.Progress(), true
}

// Active returns the projects that currently have an active run, in
// ascending order.
func (engine *Engine) Active() []trbuild.ProjectID {
	engine.state.mu.Lock()
	defer engine.state.mu.Unlock()

	return idset.Sorted(engine.state.active)
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
