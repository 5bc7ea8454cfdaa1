//go:build !windows

package trengine

import "github.com/trellisforge/trellis-build/trbuild"

// noSystemLock is used on platforms without named system mutexes. Runs are
// still guarded within the engine.
type noSystemLock struct{}

func acquireSystemLock(trbuild.ProjectID) (systemLock, error) {
	return noSystemLock{}, nil
}

// Release does nothing.
func (noSystemLock) Release() {}
