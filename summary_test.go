package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trengine"
)

func TestPrintReport(t *testing.T) {
	completed := trbuild.StepStatus{State: trbuild.StepCompleted}
	failed := trbuild.StepStatus{State: trbuild.StepFailed}

	tests := []struct {
		Name   string
		Report trengine.Report
		Want   []string
	}{
		{
			Name: "built",
			Report: trengine.Report{
				Project: 3, Plan: trbuild.PlanFullBuild,
				Reset:                 &trengine.ResetReport{Success: true},
				Steps:                 []trengine.StepReport{{Name: "Creating GitLab Project", Status: completed}},
				Completed:             true,
				ProvisioningCompleted: true,
			},
			Want: []string{"Reset root group", "Creating GitLab Project", "OK", "Infrastructure has been built."},
		},
		{
			Name: "reset-failed",
			Report: trengine.Report{
				Project: 3, Plan: trbuild.PlanFullBuild,
				Reset: &trengine.ResetReport{Message: "group is locked"},
				Steps: []trengine.StepReport{{Name: "Creating GitLab Project"}},
			},
			Want: []string{"FAILED", "group is locked", "SKIPPED", "Failed to reset root group."},
		},
		{
			Name: "reconcile-failed",
			Report: trengine.Report{
				Project: 3, Plan: trbuild.PlanReconcile,
				Steps: []trengine.StepReport{
					{Name: "Creating GitLab Subgroups", Status: completed},
					{Name: "Adding / Removing Users to GitLab Project", Status: failed, Error: "connection refused"},
				},
			},
			Want: []string{"connection refused", "Failed to update infrastructure: 1 of 2 steps failed."},
		},
		{
			Name: "up-to-date",
			Report: trengine.Report{
				Project: 3, Plan: trbuild.PlanReconcile,
				Steps:    []trengine.StepReport{{Name: "Creating GitLab Subgroups", Status: completed}},
				UpToDate: true,
			},
			Want: []string{"Infrastructure is up to date."},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			var buf bytes.Buffer
			printReport(&buf, test.Report)
			out := buf.String()
			for _, want := range test.Want {
				if !strings.Contains(out, want) {
					t.Fatalf("the summary does not contain %q:\n%s", want, out)
				}
			}
		})
	}
}
