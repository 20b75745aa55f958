//go:build linux

package cache

import (
	stderrors "errors"
	"os"

	"golang.org/x/sys/unix"
)

// restoreXattrs sets extended attributes (including POSIX ACLs) on path.
// Attributes the filesystem or the caller's privileges cannot hold are
// skipped.
func restoreXattrs(path string, attrs map[string]string) error {
	for name, value := range attrs {
		err := unix.Lsetxattr(path, name, []byte(value), 0)
		if err == nil {
			continue
		}
		if stderrors.Is(err, unix.ENOTSUP) || stderrors.Is(err, unix.EPERM) {
			continue
		}
		return &os.PathError{Op: "lsetxattr", Path: path, Err: err}
	}
	return nil
}
