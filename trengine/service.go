package trengine

import (
	"context"

	"github.com/trellisforge/trellis-build/trbuild"
)

// Service is the remote provisioning service consumed by the build engine.
//
// Each method performs one remote operation against the given project. A
// non-nil error indicates that the call itself failed. The engine treats it
// the same way as a result that is not successful.
type Service interface {
	// ResetRootGroup removes everything previously provisioned for the
	// project so that it can be built from scratch.
	ResetRootGroup(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)

	CreateProject(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	CreateSubgroups(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	AddProjectUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	AddSubgroupUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	AddDeployKey(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	GenerateRepositoryFiles(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	GenerateLabels(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)

	ReconcileSubgroups(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	ReconcileProjectUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	ReconcileSubgroupUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
	ReconcileRepositoryFiles(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
}

// FileChecker compares a project's repository files against its
// definition.
type FileChecker interface {
	CheckFileConsistency(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error)
}
