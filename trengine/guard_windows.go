//go:build windows

package trengine

import (
	"fmt"
	"runtime"

	"github.com/gentlemanautomaton/winobj/winmutex"
	"github.com/trellisforge/trellis-build/trbuild"
)

// windowsMutex is the subset of a Windows mutex used by the run guard.
type windowsMutex interface {
	TryLock() bool
	Unlock()
	Close() error
}

// windowsLock holds a named Windows mutex.
//
// Windows mutexes are owned by the thread that acquired them, so the
// goroutine holding the lock stays on its thread until it is released.
type windowsLock struct {
	mutex windowsMutex
}

func acquireSystemLock(project trbuild.ProjectID) (systemLock, error) {
	runtime.LockOSThread()

	name := `Global\` + systemLockName(project)
	mutex, err := winmutex.New(name)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("failed to open the \"%s\" mutex: %w", name, err)
	}

	if !mutex.TryLock() {
		mutex.Close()
		runtime.UnlockOSThread()
		return nil, RunActiveError{Project: project, System: true}
	}

	return windowsLock{mutex: mutex}, nil
}

// Release unlocks and closes the mutex.
func (l windowsLock) Release() {
	l.mutex.Unlock()
	l.mutex.Close()
	runtime.UnlockOSThread()
}
