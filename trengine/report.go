package trengine

import (
	"time"

	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
)

// Report is the outcome of a run. It is complete once the run has ended.
type Report struct {
	Run         uuid.UUID         `json:"run"`
	Project     trbuild.ProjectID `json:"project"`
	Plan        trbuild.PlanKind  `json:"plan"`
	Started     time.Time         `json:"started"`
	Stopped     time.Time         `json:"stopped"`
	Reset       *ResetReport      `json:"reset,omitempty"`
	Steps       []StepReport      `json:"steps"`
	CurrentStep int               `json:"current-step"`
	Completed   bool              `json:"completed"`

	// ProvisioningCompleted is set when a full build completed every step.
	ProvisioningCompleted bool `json:"provisioning-completed,omitempty"`

	// UpToDate is set when a reconcile completed every step.
	UpToDate bool `json:"up-to-date,omitempty"`
}

// Succeeded returns true if every step of the run completed.
func (r Report) Succeeded() bool {
	return r.Completed
}

// Attempted returns the number of steps that finished.
func (r Report) Attempted() int {
	return r.CurrentStep
}

// Failures returns the steps that did not complete successfully.
func (r Report) Failures() []StepReport {
	var failed []StepReport
	for _, step := range r.Steps {
		if step.Status.Failure() {
			failed = append(failed, step)
		}
	}
	return failed
}

// Duration returns the duration of the run.
func (r Report) Duration() time.Duration {
	return r.Stopped.Sub(r.Started)
}

// ResetReport is the outcome of the reset that precedes a full build.
type ResetReport struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StepReport is the outcome of a single step.
type StepReport struct {
	ID      trbuild.StepID     `json:"id"`
	Name    string             `json:"name"`
	Status  trbuild.StepStatus `json:"status"`
	Message string             `json:"message,omitempty"`
	Error   string             `json:"error,omitempty"`

	err error
}

// Reason returns the best available explanation for a step's failure.
func (s StepReport) Reason() string {
	if s.Error != "" {
		return s.Error
	}
	return s.Message
}
