package trbuild_test

import (
	"context"
	"testing"

	"github.com/trellisforge/trellis-build/trbuild"
)

func noop(context.Context) (trbuild.Result, error) {
	return trbuild.Result{Success: true}, nil
}

type planFixture struct {
	Name  string
	Plan  trbuild.Plan
	Valid bool
}

var planFixtures = []planFixture{
	{
		Name: "Valid",
		Plan: trbuild.Plan{Kind: trbuild.PlanReconcile, Project: 4, Steps: []trbuild.Step{
			{ID: "a", Name: "A", Operation: noop},
			{ID: "b", Name: "B", Operation: noop},
		}},
		Valid: true,
	},
	{
		Name: "MissingKind",
		Plan: trbuild.Plan{Project: 4, Steps: []trbuild.Step{{ID: "a", Name: "A", Operation: noop}}},
	},
	{
		Name: "UnknownKind",
		Plan: trbuild.Plan{Kind: "teardown", Project: 4, Steps: []trbuild.Step{{ID: "a", Name: "A", Operation: noop}}},
	},
	{
		Name: "MissingProject",
		Plan: trbuild.Plan{Kind: trbuild.PlanFullBuild, Steps: []trbuild.Step{{ID: "a", Name: "A", Operation: noop}}},
	},
	{
		Name: "NoSteps",
		Plan: trbuild.Plan{Kind: trbuild.PlanFullBuild, Project: 1},
	},
	{
		Name: "EmptyID",
		Plan: trbuild.Plan{Kind: trbuild.PlanFullBuild, Project: 1, Steps: []trbuild.Step{{Name: "A", Operation: noop}}},
	},
	{
		Name: "EmptyName",
		Plan: trbuild.Plan{Kind: trbuild.PlanFullBuild, Project: 1, Steps: []trbuild.Step{{ID: "a", Operation: noop}}},
	},
	{
		Name: "NilOperation",
		Plan: trbuild.Plan{Kind: trbuild.PlanFullBuild, Project: 1, Steps: []trbuild.Step{{ID: "a", Name: "A"}}},
	},
	{
		Name: "DuplicateID",
		Plan: trbuild.Plan{Kind: trbuild.PlanFullBuild, Project: 1, Steps: []trbuild.Step{
			{ID: "a", Name: "A", Operation: noop},
			{ID: "a", Name: "Again", Operation: noop},
		}},
	},
}

func TestPlanValidate(t *testing.T) {
	for _, fixture := range planFixtures {
		t.Run(fixture.Name, func(t *testing.T) {
			err := fixture.Plan.Validate()
			if fixture.Valid && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
			if !fixture.Valid && err == nil {
				t.Fatalf("expected a validation error")
			}
		})
	}
}

func TestPlanDefs(t *testing.T) {
	plan := planFixtures[0].Plan
	defs := plan.Defs()
	if len(defs) != 2 {
		t.Fatalf("expected 2 step definitions, got %d", len(defs))
	}
	if defs[1].ID != "b" || defs[1].Name != "B" {
		t.Fatalf("unexpected second definition: %+v", defs[1])
	}
}
