package runstate

import (
	"time"

	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trengine"
)

// State is the saved state of a project.
type State struct {
	Project trbuild.ProjectID `json:"project"`
	Updated time.Time         `json:"updated"`

	// ProvisioningCompleted is true once a full build has completed every
	// step. A later full build that fails clears it.
	ProvisioningCompleted bool `json:"provisioning-completed"`

	// UpToDate is true if the most recent run completed every step.
	UpToDate bool `json:"up-to-date"`

	LastRun *trengine.Report `json:"last-run,omitempty"`
}

// Apply returns a copy of s updated with the outcome of a run.
func (s State) Apply(report trengine.Report) State {
	s.Project = report.Project
	s.Updated = report.Stopped
	s.LastRun = &report

	switch report.Plan {
	case trbuild.PlanFullBuild:
		s.ProvisioningCompleted = report.ProvisioningCompleted
		s.UpToDate = report.ProvisioningCompleted
	case trbuild.PlanReconcile:
		s.UpToDate = report.UpToDate
	}

	return s
}
