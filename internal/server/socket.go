package server

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

// forceTCP reports whether the daemon was told to skip the platform
// socket entirely.
func forceTCP() bool {
	v := os.Getenv(common.ForceTCPEnv)
	return v == "1" || v == "true"
}
