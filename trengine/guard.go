package trengine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/idset"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trbuildevent"
)

// projectSet keeps track of a set of projects.
type projectSet = idset.SetOf[trbuild.ProjectID]

// engineState keeps track of the runs that are active within an engine.
type engineState struct {
	mu     sync.Mutex
	active projectSet
	runs   map[trbuild.ProjectID]*runEngine
}

func newEngineState() *engineState {
	return &engineState{
		active: make(projectSet),
		runs:   make(map[trbuild.ProjectID]*runEngine),
	}
}

// systemLock is held for the duration of a run to keep other processes on
// the same machine from running a plan for the same project.
type systemLock interface {
	Release()
}

// systemLockName returns the name of the system-wide lock for a project.
func systemLockName(project trbuild.ProjectID) string {
	return fmt.Sprintf("Trellis-Build-Project-%d", project)
}

// acquire marks a run of the given plan as active for the project. It
// returns a RunActiveError if a run is already active for the project.
//
// The returned release function must be called when the run has ended.
// It must be called from the goroutine that called acquire.
func (engine *Engine) acquire(project trbuild.ProjectID, plan trbuild.PlanKind) (*runEngine, func(), error) {
	run, lock, err := func() (*runEngine, systemLock, error) {
		engine.state.mu.Lock()
		defer engine.state.mu.Unlock()

		if engine.state.active.Contains(project) {
			return nil, nil, RunActiveError{Project: project, Plan: plan}
		}

		lock, err := engine.lockSystem(project)
		if err != nil {
			var activeErr RunActiveError
			if errors.As(err, &activeErr) {
				activeErr.Plan = plan
				return nil, nil, activeErr
			}
			return nil, nil, fmt.Errorf("unable to start the \"%s\" run for project %d: %w", plan, project, err)
		}

		run := &runEngine{
			id:      uuid.New(),
			project: project,
			plan:    plan,
			events:  engine.events,
			timing:  engine.timing,
			sleep:   engine.sleep,
			tracker: NewTracker(0),
		}
		engine.state.active.Add(project)
		engine.state.runs[project] = run

		return run, lock, nil
	}()

	if err != nil {
		if errors.As(err, new(RunActiveError)) {
			engine.events.Record(trbuildevent.RunAlreadyActive{
				Project: project,
				Plan:    plan,
				Err:     err,
			})
		}
		return nil, nil, err
	}

	release := func() {
		engine.state.mu.Lock()
		engine.state.active.Remove(project)
		delete(engine.state.runs, project)
		engine.state.mu.Unlock()

		lock.Release()
	}

	return run, release, nil
}
