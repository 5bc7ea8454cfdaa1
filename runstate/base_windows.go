//go:build windows

package runstate

import "golang.org/x/sys/windows"

// defaultBasePath returns the system's ProgramData directory.
func defaultBasePath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_ProgramData, 0)
}
