package trmetrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trbuildevent"
	"github.com/trellisforge/trellis-build/trevent"
	"github.com/trellisforge/trellis-build/trmetrics"
)

// counterValue returns the value of the counter or gauge in the named
// family whose labels match the given pairs.
func counterValue(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := gatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metrics
				}
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestHandlerCountsRun(t *testing.T) {
	handler := trmetrics.NewHandler()
	rec := trevent.Recorder{Handler: handler}

	run := uuid.New()
	started := time.Now()

	rec.Record(trbuildevent.RunStarted{Run: run, Project: 4, Plan: trbuild.PlanReconcile})
	assert.Equal(t, 1.0, counterValue(t, handler.Gatherer(), "trellis_build_active_runs", nil))

	rec.Record(trbuildevent.StepStopped{
		Run: run, Project: 4, Plan: trbuild.PlanReconcile, Index: 0,
		Step: "reconcile.subgroups", Name: "Creating GitLab Subgroups",
		Started: started, Stopped: started.Add(time.Second),
		Result: trbuild.Result{Success: true},
	})
	rec.Record(trbuildevent.StepStopped{
		Run: run, Project: 4, Plan: trbuild.PlanReconcile, Index: 1,
		Step: "reconcile.project-users", Name: "Adding / Removing Users to GitLab Project",
		Started: started, Stopped: started.Add(time.Second),
		Err: errors.New("connection reset"),
	})
	rec.Record(trbuildevent.RunStopped{
		Run: run, Project: 4, Plan: trbuild.PlanReconcile,
		Started: started, Stopped: started.Add(2 * time.Second),
		Attempted: 2, Completed: 1,
		Failures: []trbuildevent.StepFailure{{Index: 1, Step: "reconcile.project-users", Name: "Adding / Removing Users to GitLab Project", Reason: "connection reset"}},
	})

	gatherer := handler.Gatherer()
	assert.Equal(t, 0.0, counterValue(t, gatherer, "trellis_build_active_runs", nil))
	assert.Equal(t, 1.0, counterValue(t, gatherer, "trellis_build_steps_total", map[string]string{"step": "reconcile.subgroups", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, gatherer, "trellis_build_steps_total", map[string]string{"step": "reconcile.project-users", "outcome": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, gatherer, "trellis_build_runs_total", map[string]string{"plan": "reconcile", "outcome": "failure"}))
}

func TestHandlerCountsResetsAndRejections(t *testing.T) {
	handler := trmetrics.NewHandler()
	rec := trevent.Recorder{Handler: handler}

	rec.Record(trbuildevent.ResetStopped{Project: 2, Result: trbuild.Result{Success: false, Message: "locked"}})
	rec.Record(trbuildevent.RunAlreadyActive{Project: 2, Plan: trbuild.PlanFullBuild})
	rec.Record(trbuildevent.FileConsistencyChecked{Project: 2, Result: trbuild.Result{Success: true}})

	gatherer := handler.Gatherer()
	assert.Equal(t, 1.0, counterValue(t, gatherer, "trellis_build_resets_total", map[string]string{"outcome": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, gatherer, "trellis_build_rejected_runs_total", map[string]string{"plan": "full-build"}))
	assert.Equal(t, 1.0, counterValue(t, gatherer, "trellis_build_file_checks_total", map[string]string{"outcome": "success"}))
}

func TestHandlerWriteTextfile(t *testing.T) {
	handler := trmetrics.NewHandler()
	rec := trevent.Recorder{Handler: handler}
	rec.Record(trbuildevent.RunAlreadyActive{Project: 2, Plan: trbuild.PlanReconcile})

	path := filepath.Join(t.TempDir(), "trellis.prom")
	require.NoError(t, handler.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `trellis_build_rejected_runs_total{plan="reconcile"} 1`), string(data))
}
