package trengine

import (
	"context"
	"fmt"

	"github.com/trellisforge/trellis-build/trbuild"
)

// Full build step identifiers.
const (
	StepCreateProject           trbuild.StepID = "build.create-project"
	StepCreateSubgroups         trbuild.StepID = "build.create-subgroups"
	StepAddProjectUsers         trbuild.StepID = "build.add-project-users"
	StepAddSubgroupUsers        trbuild.StepID = "build.add-subgroup-users"
	StepAddDeployKey            trbuild.StepID = "build.add-deploy-key"
	StepGenerateRepositoryFiles trbuild.StepID = "build.generate-repository-files"
	StepGenerateLabels          trbuild.StepID = "build.generate-labels"
)

// Reconcile step identifiers.
const (
	StepReconcileSubgroups       trbuild.StepID = "reconcile.subgroups"
	StepReconcileProjectUsers    trbuild.StepID = "reconcile.project-users"
	StepReconcileSubgroupUsers   trbuild.StepID = "reconcile.subgroup-users"
	StepReconcileRepositoryFiles trbuild.StepID = "reconcile.repository-files"
)

// serviceCall is a method expression on Service that performs one remote
// operation.
type serviceCall func(Service, context.Context, trbuild.ProjectID) (trbuild.Result, error)

type catalogEntry struct {
	Def  trbuild.StepDef
	Call serviceCall
}

var fullBuildCatalog = []catalogEntry{
	{Def: trbuild.StepDef{ID: StepCreateProject, Name: "Creating GitLab Project"}, Call: Service.CreateProject},
	{Def: trbuild.StepDef{ID: StepCreateSubgroups, Name: "Creating GitLab Subgroups"}, Call: Service.CreateSubgroups},
	{Def: trbuild.StepDef{ID: StepAddProjectUsers, Name: "Adding Users to GitLab Project"}, Call: Service.AddProjectUsers},
	{Def: trbuild.StepDef{ID: StepAddSubgroupUsers, Name: "Adding Users to GitLab Subgroups"}, Call: Service.AddSubgroupUsers},
	{Def: trbuild.StepDef{ID: StepAddDeployKey, Name: "Add Deployment Key to GitLab Project"}, Call: Service.AddDeployKey},
	{Def: trbuild.StepDef{ID: StepGenerateRepositoryFiles, Name: "Generate and Upload Repository File Structure to GitLab"}, Call: Service.GenerateRepositoryFiles},
	{Def: trbuild.StepDef{ID: StepGenerateLabels, Name: "Generate GitLab Labels"}, Call: Service.GenerateLabels},
}

var reconcileCatalog = []catalogEntry{
	{Def: trbuild.StepDef{ID: StepReconcileSubgroups, Name: "Creating GitLab Subgroups"}, Call: Service.ReconcileSubgroups},
	{Def: trbuild.StepDef{ID: StepReconcileProjectUsers, Name: "Adding / Removing Users to GitLab Project"}, Call: Service.ReconcileProjectUsers},
	{Def: trbuild.StepDef{ID: StepReconcileSubgroupUsers, Name: "Adding / Removing Users to GitLab Subgroups"}, Call: Service.ReconcileSubgroupUsers},
	{Def: trbuild.StepDef{ID: StepReconcileRepositoryFiles, Name: "Update and Upload Repository File Structure to GitLab"}, Call: Service.ReconcileRepositoryFiles},
}

func catalogFor(kind trbuild.PlanKind) ([]catalogEntry, error) {
	switch kind {
	case trbuild.PlanFullBuild:
		return fullBuildCatalog, nil
	case trbuild.PlanReconcile:
		return reconcileCatalog, nil
	default:
		if err := kind.Validate(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("the plan kind \"%s\" has no catalog", kind)
	}
}

// Definitions returns the ordered step definitions for the given kind of
// plan.
func Definitions(kind trbuild.PlanKind) ([]trbuild.StepDef, error) {
	entries, err := catalogFor(kind)
	if err != nil {
		return nil, err
	}
	defs := make([]trbuild.StepDef, 0, len(entries))
	for _, entry := range entries {
		defs = append(defs, entry.Def)
	}
	return defs, nil
}

// NewPlan builds a fresh plan of the given kind for a project. Each step's
// operation calls the matching method of svc for that project.
func NewPlan(kind trbuild.PlanKind, project trbuild.ProjectID, svc Service) (trbuild.Plan, error) {
	if svc == nil {
		return trbuild.Plan{}, fmt.Errorf("a provisioning service is required to build a \"%s\" plan", kind)
	}

	entries, err := catalogFor(kind)
	if err != nil {
		return trbuild.Plan{}, err
	}

	plan := trbuild.Plan{
		Kind:    kind,
		Project: project,
		Steps:   make([]trbuild.Step, 0, len(entries)),
	}
	for _, entry := range entries {
		call := entry.Call
		plan.Steps = append(plan.Steps, trbuild.Step{
			ID:   entry.Def.ID,
			Name: entry.Def.Name,
			Operation: func(ctx context.Context) (trbuild.Result, error) {
				return call(svc, ctx, project)
			},
		})
	}

	return plan, plan.Validate()
}
