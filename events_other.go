//go:build !windows

package main

import (
	"errors"

	"github.com/trellisforge/trellis-build/trevent"
)

func newSystemHandler() (trevent.Handler, error) {
	return nil, errors.New("a system event log is not available on this platform")
}
