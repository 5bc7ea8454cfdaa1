package trbuildevent_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trbuildevent"
)

func TestRunStoppedOutcome(t *testing.T) {
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	base := trbuildevent.RunStopped{
		Run:       uuid.New(),
		Project:   7,
		Plan:      trbuild.PlanFullBuild,
		Started:   started,
		Stopped:   started.Add(2 * time.Second),
		Attempted: 7,
		Completed: 7,
	}

	t.Run("Success", func(t *testing.T) {
		e := base
		if !e.Succeeded() || e.Level() != slog.LevelInfo {
			t.Fatalf("expected a successful info event")
		}
		if !strings.Contains(e.Message(), "Infrastructure has been built.") {
			t.Fatalf("unexpected message: %s", e.Message())
		}
		if e.Details() != "" {
			t.Fatalf("unexpected details: %q", e.Details())
		}
	})

	t.Run("ReconcileSuccess", func(t *testing.T) {
		e := base
		e.Plan = trbuild.PlanReconcile
		if !strings.Contains(e.Message(), "Infrastructure is up to date.") {
			t.Fatalf("unexpected message: %s", e.Message())
		}
	})

	t.Run("StepFailure", func(t *testing.T) {
		e := base
		e.Completed = 6
		e.Failures = []trbuildevent.StepFailure{{Index: 3, Step: "build.subgroup-users", Name: "Adding Users to GitLab Subgroups", Reason: "user not found"}}
		if e.Succeeded() || e.Level() != slog.LevelError {
			t.Fatalf("expected a failed error event")
		}
		msg := e.Message()
		if !strings.Contains(msg, "1 of 7 steps failed") || !strings.Contains(msg, "Adding Users to GitLab Subgroups") {
			t.Fatalf("unexpected message: %s", msg)
		}
		if want := "4. Adding Users to GitLab Subgroups (user not found)\n"; e.Details() != want {
			t.Fatalf("unexpected details: %q (want %q)", e.Details(), want)
		}
	})

	t.Run("ResetFailure", func(t *testing.T) {
		e := base
		e.Attempted, e.Completed = 0, 0
		e.Err = errors.New("failed to reset root group")
		if e.Succeeded() {
			t.Fatalf("expected a failed run")
		}
		if !strings.Contains(e.Message(), "failed to reset root group") {
			t.Fatalf("unexpected message: %s", e.Message())
		}
	})
}

func TestStepStoppedMessages(t *testing.T) {
	e := trbuildevent.StepStopped{Project: 1, Plan: trbuild.PlanReconcile, Index: 0, Name: "Creating GitLab Subgroups"}

	e.Result = trbuild.Result{Success: true}
	if !strings.Contains(e.Message(), "Completed step.") {
		t.Fatalf("unexpected message: %s", e.Message())
	}

	e.Result = trbuild.Result{Message: "quota exceeded"}
	if !strings.Contains(e.Message(), "quota exceeded") || e.Level() != slog.LevelError {
		t.Fatalf("unexpected rejection event: %s", e.Message())
	}

	e.Result = trbuild.Result{}
	e.Err = errors.New("connection refused")
	if !strings.Contains(e.Message(), "connection refused") || e.Succeeded() {
		t.Fatalf("unexpected transport failure event: %s", e.Message())
	}
}
