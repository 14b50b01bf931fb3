package cmd

import (
	"os"
	"path/filepath"
)

// dataDir returns the daemon state directory, creating it if needed.
// CRUXD_DATA_DIR overrides the default under the user config dir.
func dataDir() (string, error) {
	if dir := os.Getenv("CRUXD_DATA_DIR"); dir != "" {
		return dir, os.MkdirAll(dir, 0o755)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "cruxd")
	return dir, os.MkdirAll(dir, 0o755)
}
