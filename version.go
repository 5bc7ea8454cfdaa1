package main

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
)

// VersionCmd displays version information about the program.
type VersionCmd struct{}

// Run executes the Trellis version command.
func (cmd VersionCmd) Run(ctx context.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Printf("trellis-build (unknown version) %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	}

	version := info.Main.Version
	if version == "" {
		version = "(devel)"
	}
	fmt.Printf("trellis-build %s %s %s/%s\n", version, info.GoVersion, runtime.GOOS, runtime.GOARCH)

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision", "vcs.time", "vcs.modified":
			fmt.Printf("  %s: %s\n", setting.Key, setting.Value)
		}
	}

	return nil
}
