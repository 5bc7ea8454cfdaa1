package trengine

import (
	"context"
	"slices"
	"testing"

	"github.com/trellisforge/trellis-build/trbuild"
)

func TestDefinitions(t *testing.T) {
	tests := []struct {
		Kind  trbuild.PlanKind
		Names []string
	}{
		{
			Kind: trbuild.PlanFullBuild,
			Names: []string{
				"Creating GitLab Project",
				"Creating GitLab Subgroups",
				"Adding Users to GitLab Project",
				"Adding Users to GitLab Subgroups",
				"Add Deployment Key to GitLab Project",
				"Generate and Upload Repository File Structure to GitLab",
				"Generate GitLab Labels",
			},
		},
		{
			Kind: trbuild.PlanReconcile,
			Names: []string{
				"Creating GitLab Subgroups",
				"Adding / Removing Users to GitLab Project",
				"Adding / Removing Users to GitLab Subgroups",
				"Update and Upload Repository File Structure to GitLab",
			},
		},
	}

	for _, test := range tests {
		t.Run(string(test.Kind), func(t *testing.T) {
			defs, err := Definitions(test.Kind)
			if err != nil {
				t.Fatalf("Definitions: %v", err)
			}
			var names []string
			for _, def := range defs {
				names = append(names, def.Name)
			}
			if !slices.Equal(names, test.Names) {
				t.Fatalf("got %q, want %q", names, test.Names)
			}
		})
	}

	if _, err := Definitions("teardown"); err == nil {
		t.Fatalf("an unknown plan kind was accepted")
	}
}

func TestNewPlanBindsProject(t *testing.T) {
	svc := &fakeService{}
	project := trbuild.ProjectID(42)

	plan, err := NewPlan(trbuild.PlanReconcile, project, svc)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if plan.Project != project || plan.Kind != trbuild.PlanReconcile {
		t.Fatalf("the plan was built for the wrong project or kind")
	}

	for _, step := range plan.Steps {
		if _, err := step.Operation(context.Background()); err != nil {
			t.Fatalf("%s: %v", step.ID, err)
		}
	}

	want := []string{"edit-subgroups", "edit-project-users", "edit-subgroup-users", "edit-repository-files"}
	if got := svc.Calls(); !slices.Equal(got, want) {
		t.Fatalf("got calls %q, want %q", got, want)
	}

	if _, err := NewPlan(trbuild.PlanFullBuild, 0, svc); err == nil {
		t.Fatalf("a plan was built for an invalid project")
	}
	if _, err := NewPlan(trbuild.PlanFullBuild, project, nil); err == nil {
		t.Fatalf("a plan was built without a service")
	}
}
