package trmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/trellisforge/trellis-build/trbuildevent"
	"github.com/trellisforge/trellis-build/trevent"
)

const namespace = "trellis_build"

// Outcome label values.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Handler is an event handler that maintains Prometheus metrics about
// runs, steps and resets. It implements trevent.Handler.
type Handler struct {
	registry *prometheus.Registry

	activeRuns    prometheus.Gauge
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	rejectedRuns  *prometheus.CounterVec
	steps         *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	resets        *prometheus.CounterVec
	resetDuration prometheus.Histogram
	fileChecks    *prometheus.CounterVec
}

// NewHandler returns a metrics handler with its own registry.
func NewHandler() *Handler {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Handler{
		registry: registry,
		activeRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_runs",
			Help:      "Number of runs currently in progress.",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of runs that have ended, by plan and outcome.",
		}, []string{"plan", "outcome"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of runs, by plan.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"plan"}),
		rejectedRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_runs_total",
			Help:      "Total number of runs rejected because a run was already active for the project.",
		}, []string{"plan"}),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Total number of steps that have finished, by plan, step and outcome.",
		}, []string{"plan", "step", "outcome"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of remote step operations, by plan and step.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"plan", "step"}),
		resets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of root group resets, by outcome.",
		}, []string{"outcome"}),
		resetDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reset_duration_seconds",
			Help:      "Duration of root group resets.",
			Buckets:   prometheus.DefBuckets,
		}),
		fileChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_checks_total",
			Help:      "Total number of file consistency checks, by outcome.",
		}, []string{"outcome"}),
	}
}

// Name returns the name of the handler.
func (h *Handler) Name() string {
	return "metrics"
}

// Handle updates the metrics affected by the event record. Events that
// have no metrics are ignored.
func (h *Handler) Handle(r trevent.Record) error {
	switch e := r.Payload().(type) {
	case trbuildevent.RunStarted:
		h.activeRuns.Inc()
	case trbuildevent.RunStopped:
		h.activeRuns.Dec()
		h.runs.WithLabelValues(string(e.Plan), outcome(e.Succeeded())).Inc()
		h.runDuration.WithLabelValues(string(e.Plan)).Observe(e.Duration().Seconds())
	case trbuildevent.RunAlreadyActive:
		h.rejectedRuns.WithLabelValues(string(e.Plan)).Inc()
	case trbuildevent.StepStopped:
		h.steps.WithLabelValues(string(e.Plan), string(e.Step), outcome(e.Succeeded())).Inc()
		h.stepDuration.WithLabelValues(string(e.Plan), string(e.Step)).Observe(e.Duration().Seconds())
	case trbuildevent.ResetStopped:
		h.resets.WithLabelValues(outcome(e.Succeeded())).Inc()
		h.resetDuration.Observe(e.Duration().Seconds())
	case trbuildevent.FileConsistencyChecked:
		h.fileChecks.WithLabelValues(outcome(e.Succeeded())).Inc()
	}
	return nil
}

// Gatherer returns the registry that holds the handler's metrics.
func (h *Handler) Gatherer() prometheus.Gatherer {
	return h.registry
}

// WriteTextfile writes the handler's metrics to the file at path in the
// Prometheus text format, replacing it atomically.
//
// The file is suitable for collection by the node exporter's textfile
// collector.
func (h *Handler) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func outcome(success bool) string {
	if success {
		return outcomeSuccess
	}
	return outcomeFailure
}
