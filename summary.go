package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trengine"
)

// printReport writes a summary table of a run to w.
func printReport(w io.Writer, report trengine.Report) {
	fmt.Fprintf(w, "---- Project %d: %s (%s) ----\n", report.Project, report.Plan, report.Duration().Round(time.Millisecond*10))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if report.Reset != nil {
		fmt.Fprintf(tw, "  -\tReset root group\t%s\t%s\n", resetStatus(*report.Reset), resetReason(*report.Reset))
	}
	for i, step := range report.Steps {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", i+1, step.Name, stepStatus(step.Status), step.Reason())
	}
	tw.Flush()

	fmt.Fprintf(w, "  %s\n", summaryLine(report))
}

func summaryLine(report trengine.Report) string {
	switch {
	case report.Reset != nil && !report.Reset.Success:
		return "Failed to reset root group."
	case report.ProvisioningCompleted:
		return "Infrastructure has been built."
	case report.UpToDate:
		return "Infrastructure is up to date."
	}

	failed := len(report.Failures())
	switch report.Plan {
	case trbuild.PlanFullBuild:
		return fmt.Sprintf("Failed to build infrastructure: %d of %d steps failed.", failed, len(report.Steps))
	default:
		return fmt.Sprintf("Failed to update infrastructure: %d of %d steps failed.", failed, len(report.Steps))
	}
}

func stepStatus(status trbuild.StepStatus) string {
	switch {
	case status.Completed():
		return "OK"
	case status.Failure():
		return "FAILED"
	case status.InProgress():
		return "RUNNING"
	default:
		return "SKIPPED"
	}
}

func resetStatus(reset trengine.ResetReport) string {
	if reset.Success {
		return "OK"
	}
	return "FAILED"
}

func resetReason(reset trengine.ResetReport) string {
	if reset.Error != "" {
		return reset.Error
	}
	return reset.Message
}
