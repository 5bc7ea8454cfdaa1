package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli struct {
		Build      BuildCmd      `kong:"cmd,help='Resets a project and builds its infrastructure from scratch.'"`
		Reconcile  ReconcileCmd  `kong:"cmd,help='Brings the infrastructure of a provisioned project up to date.'"`
		CheckFiles CheckFilesCmd `kong:"cmd,name='check-files',help='Checks the repository files of a project against its definition.'"`
		Show       ShowCmd       `kong:"cmd,help='Shows information about a project.'"`
		Version    VersionCmd    `kong:"cmd,help='Display trellis-build version information.'"`
	}

	parser := kong.Must(&cli,
		kong.Description("Provisions project infrastructure through the Trellis provisioning service."),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.UsageOnError())

	app, parseErr := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(parseErr)

	appErr := app.Run()
	app.FatalIfErrorf(appErr)
}
