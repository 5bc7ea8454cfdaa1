//go:build !windows

package runstate

import "os"

// defaultBasePath returns the user's cache directory.
func defaultBasePath() (string, error) {
	return os.UserCacheDir()
}
