package trengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trellisforge/trellis-build/trbuild"
)

var errTransport = errors.New("connection refused")

// fakeService records every remote operation it receives. Operations
// succeed unless they are listed in fail or broken.
type fakeService struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]bool
	broken map[string]bool

	// block, if non-nil, is received from before an operation named
	// blockOn returns.
	blockOn string
	entered chan struct{}
	block   chan struct{}
}

func (svc *fakeService) call(ctx context.Context, name string, project trbuild.ProjectID) (trbuild.Result, error) {
	svc.mu.Lock()
	svc.calls = append(svc.calls, name)
	fail := svc.fail[name]
	broken := svc.broken[name]
	svc.mu.Unlock()

	if svc.block != nil && name == svc.blockOn {
		svc.entered <- struct{}{}
		<-svc.block
	}

	switch {
	case broken:
		return trbuild.Result{}, errTransport
	case fail:
		return trbuild.Result{Success: false, Message: name + " failed"}, nil
	default:
		return trbuild.Result{Success: true, Message: name + " ok"}, nil
	}
}

func (svc *fakeService) Calls() []string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]string(nil), svc.calls...)
}

func (svc *fakeService) ResetRootGroup(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "reset", project)
}

func (svc *fakeService) CreateProject(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "project", project)
}

func (svc *fakeService) CreateSubgroups(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "subgroups", project)
}

func (svc *fakeService) AddProjectUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "project-users", project)
}

func (svc *fakeService) AddSubgroupUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "subgroup-users", project)
}

func (svc *fakeService) AddDeployKey(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "deploy-key", project)
}

func (svc *fakeService) GenerateRepositoryFiles(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "repository-files", project)
}

func (svc *fakeService) GenerateLabels(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "labels", project)
}

func (svc *fakeService) ReconcileSubgroups(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "edit-subgroups", project)
}

func (svc *fakeService) ReconcileProjectUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "edit-project-users", project)
}

func (svc *fakeService) ReconcileSubgroupUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "edit-subgroup-users", project)
}

func (svc *fakeService) ReconcileRepositoryFiles(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return svc.call(ctx, "edit-repository-files", project)
}

// sleepRecorder records the delays requested by an engine without waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
}

func (s *sleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}
