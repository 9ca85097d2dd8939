//go:build windows

package ops

import "os"

// createNoFollow creates path for writing. O_NOFOLLOW does not exist on
// Windows; ValidateExportPath has already rejected symlinks.
func createNoFollow(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
}
