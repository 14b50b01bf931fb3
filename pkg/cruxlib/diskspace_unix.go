//go:build darwin || freebsd || linux

package cruxlib

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkDiskSpace verifies that path has room for a file of the given
// size. A failed statfs is ignored rather than failing the download;
// the write itself will surface a real shortage.
func checkDiskSpace(path string, requiredBytes int64) error {
	if requiredBytes <= 0 {
		return nil
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return nil
	}

	// Bavail counts blocks available to unprivileged users.
	availableBytes := int64(stat.Bavail) * int64(stat.Bsize)
	if availableBytes < requiredBytes {
		return fmt.Errorf("%w: need %d bytes, %d available",
			ErrInsufficientDiskSpace, requiredBytes, availableBytes)
	}
	return nil
}
