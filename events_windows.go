//go:build windows

package main

import "github.com/trellisforge/trellis-build/trevent"

func newSystemHandler() (trevent.Handler, error) {
	return trevent.NewWindowsHandler()
}
