package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/trellisforge/trellis-build/runstate"
	"github.com/trellisforge/trellis-build/trbuild"
	"github.com/trellisforge/trellis-build/trclient"
	"github.com/trellisforge/trellis-build/trengine"
)

// ShowCmd shows information that is relevant to a Trellis project.
type ShowCmd struct {
	Config  ShowConfigCmd  `kong:"cmd,help='Shows configuration loaded from a configuration file.'"`
	Plan    ShowPlanCmd    `kong:"cmd,help='Shows the steps of a plan.'"`
	LastRun ShowLastRunCmd `kong:"cmd,name='last-run',help='Shows the outcome of the most recent run for a project.'"`
	URL     ShowURLCmd     `kong:"cmd,name='url',help='Shows the address of the workspace for a project.'"`
}

// ShowConfigCmd shows the configuration loaded from a configuration file.
type ShowConfigCmd struct {
	ConfigFile string `kong:"required,name='config-file',help='Path to a configuration file describing the provisioning service.'"`
}

// Run executes the Trellis show config command.
func (cmd ShowConfigCmd) Run(ctx context.Context) error {
	// Read the configuration file.
	cfg, err := loadConfig(cmd.ConfigFile)
	if err != nil {
		return err
	}

	// Print the loaded configuration.
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

// ShowPlanCmd shows the ordered steps of a plan.
type ShowPlanCmd struct {
	Plan trbuild.PlanKind `kong:"required,name='plan',enum='full-build,reconcile',help='The kind of plan to show (full-build or reconcile).'"`
}

// Run executes the Trellis show plan command.
func (cmd ShowPlanCmd) Run(ctx context.Context) error {
	defs, err := trengine.Definitions(cmd.Plan)
	if err != nil {
		return err
	}

	fmt.Printf("---- %s Plan ----\n", cmd.Plan)
	if cmd.Plan == trbuild.PlanFullBuild {
		fmt.Printf("  0. Reset root group\n")
	}
	for i, def := range defs {
		fmt.Printf("  %d. %s\n", i+1, def.Name)
		fmt.Printf("       ID: %s\n", def.ID)
	}

	return nil
}

// ShowLastRunCmd shows the outcome of the most recent run for a project.
type ShowLastRunCmd struct {
	Project trbuild.ProjectID `kong:"required,name='project',short='p',help='The ID of the project.'"`
	JSON    bool              `kong:"optional,name='json',help='Print the saved state as JSON.'"`
}

// Run executes the Trellis show last-run command.
func (cmd ShowLastRunCmd) Run(ctx context.Context) error {
	dir, err := runstate.OpenProject(cmd.Project)
	if err != nil {
		return err
	}
	defer dir.Close()

	state, err := dir.Load()
	if err != nil {
		return err
	}

	if cmd.JSON {
		out, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("---- Project %d ----\n", cmd.Project)
	fmt.Printf("  Provisioned:  %s\n", yesNo(state.ProvisioningCompleted))
	fmt.Printf("  Up To Date:   %s\n", yesNo(state.UpToDate))
	fmt.Printf("  Updated:      %s\n", state.Updated.Local().Format("2006-01-02 15:04:05"))

	if state.LastRun != nil {
		fmt.Println()
		printReport(os.Stdout, *state.LastRun)
	}

	return nil
}

// ShowURLCmd shows the address of the workspace for a project.
type ShowURLCmd struct {
	ConfigFile string            `kong:"required,name='config-file',help='Path to a configuration file describing the provisioning service.'"`
	Project    trbuild.ProjectID `kong:"required,name='project',short='p',help='The ID of the project.'"`
	Token      string            `kong:"optional,name='token',env='TRELLIS_TOKEN',help='Access token for the provisioning service.'"`
}

// Run executes the Trellis show url command.
func (cmd ShowURLCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig(cmd.ConfigFile)
	if err != nil {
		return err
	}

	token, err := loadToken(cmd.Token, cfg.Server.TokenFile)
	if err != nil {
		return err
	}

	client, err := trclient.New(cfg.Server, token)
	if err != nil {
		return err
	}

	address, err := client.WorkspaceURL(ctx, cmd.Project)
	if err != nil {
		return err
	}

	fmt.Println(address)

	return nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
