package trbuild

import (
	"errors"
	"fmt"
)

// PlanKind identifies one of the canonical provisioning plans.
type PlanKind string

// Recognized plan kinds.
const (
	PlanFullBuild PlanKind = "full-build"
	PlanReconcile PlanKind = "reconcile"
)

// Validate returns a non-nil error if the plan kind is not recognized.
func (kind PlanKind) Validate() error {
	switch kind {
	case PlanFullBuild, PlanReconcile:
		return nil
	case "":
		return errors.New("a plan kind is missing")
	default:
		return fmt.Errorf("the plan kind \"%s\" is not recognized", kind)
	}
}

// PlanKinds returns all recognized plan kinds.
func PlanKinds() []PlanKind {
	return []PlanKind{PlanFullBuild, PlanReconcile}
}

// Plan is an ordered sequence of steps to be run against a project.
type Plan struct {
	Kind    PlanKind
	Project ProjectID
	Steps   []Step
}

// Validate returns an error if the plan cannot be run.
func (plan Plan) Validate() error {
	if err := plan.Kind.Validate(); err != nil {
		return err
	}
	if err := plan.Project.Validate(); err != nil {
		return err
	}
	if len(plan.Steps) == 0 {
		return fmt.Errorf("the \"%s\" plan has no steps", plan.Kind)
	}
	seen := make(map[StepID]struct{}, len(plan.Steps))
	for i, step := range plan.Steps {
		if step.ID == "" {
			return fmt.Errorf("step %d of the \"%s\" plan has an empty id", i+1, plan.Kind)
		}
		if step.Name == "" {
			return fmt.Errorf("the \"%s\" step has an empty name", step.ID)
		}
		if step.Operation == nil {
			return fmt.Errorf("the \"%s\" step has no operation", step.ID)
		}
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("the \"%s\" plan contains a duplicate step id: %s", plan.Kind, step.ID)
		}
		seen[step.ID] = struct{}{}
	}
	return nil
}

// Defs returns the definitions of the plan's steps in order.
func (plan Plan) Defs() []StepDef {
	defs := make([]StepDef, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		defs = append(defs, step.Def())
	}
	return defs
}
