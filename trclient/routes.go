package trclient

import (
	"context"

	"github.com/trellisforge/trellis-build/trbuild"
)

// Routes beneath /api/v1/project/{id}/.
const (
	routeReset                    = "build/reset_gitlab"
	routeCreateProject            = "build/project"
	routeCreateSubgroups          = "build/subgroups"
	routeAddProjectUsers          = "build/project_users"
	routeAddSubgroupUsers         = "build/subgroup_users"
	routeAddDeployKey             = "build/deploy_key"
	routeGenerateRepositoryFiles  = "build/repository_files"
	routeGenerateLabels           = "build/labels"
	routeReconcileSubgroups       = "edit/subgroups"
	routeReconcileProjectUsers    = "edit/project_users"
	routeReconcileSubgroupUsers   = "edit/subgroup_users"
	routeReconcileRepositoryFiles = "edit/repository_files"
	routeFileConsistencyCheck     = "file_consistency_check"
	routeWorkspaceURL             = "gitlab_url"
)

// ResetRootGroup removes everything previously provisioned for the project.
func (c *Client) ResetRootGroup(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeReset)
}

// CreateProject creates the project's repository.
func (c *Client) CreateProject(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeCreateProject)
}

// CreateSubgroups creates the project's subgroups.
func (c *Client) CreateSubgroups(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeCreateSubgroups)
}

// AddProjectUsers grants the project's members access to its repository.
func (c *Client) AddProjectUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeAddProjectUsers)
}

// AddSubgroupUsers grants the project's members access to its subgroups.
func (c *Client) AddSubgroupUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeAddSubgroupUsers)
}

// AddDeployKey installs the project's deployment key.
func (c *Client) AddDeployKey(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeAddDeployKey)
}

// GenerateRepositoryFiles generates and uploads the repository file
// structure.
func (c *Client) GenerateRepositoryFiles(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeGenerateRepositoryFiles)
}

// GenerateLabels creates the project's labels.
func (c *Client) GenerateLabels(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeGenerateLabels)
}

// ReconcileSubgroups brings the project's subgroups up to date.
func (c *Client) ReconcileSubgroups(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeReconcileSubgroups)
}

// ReconcileProjectUsers adds and removes repository members.
func (c *Client) ReconcileProjectUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeReconcileProjectUsers)
}

// ReconcileSubgroupUsers adds and removes subgroup members.
func (c *Client) ReconcileSubgroupUsers(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeReconcileSubgroupUsers)
}

// ReconcileRepositoryFiles updates and uploads the repository file
// structure.
func (c *Client) ReconcileRepositoryFiles(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeReconcileRepositoryFiles)
}

// CheckFileConsistency compares the project's repository files against its
// definition.
func (c *Client) CheckFileConsistency(ctx context.Context, project trbuild.ProjectID) (trbuild.Result, error) {
	return c.invoke(ctx, project, routeFileConsistencyCheck)
}
