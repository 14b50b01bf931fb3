//go:build !windows

package cruxcli

import (
	"os"
	"path/filepath"

	"github.com/cruxd/cruxd/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "cruxd.sock")
}

// connectionPath is the address polled while waiting for a spawned
// daemon to come up.
func connectionPath() string {
	return socketPath()
}
