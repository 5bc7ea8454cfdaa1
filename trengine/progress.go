package trengine

import (
	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
)

// Progress is a read-only view of an active run.
type Progress struct {
	Run               uuid.UUID
	Project           trbuild.ProjectID
	Plan              trbuild.PlanKind
	Resetting         bool
	Steps             []trbuild.StepDef
	Statuses          []trbuild.StepStatus
	Current           int
	WorkflowCompleted bool
}
