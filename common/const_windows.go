//go:build windows

package common

import (
	"os"
	"strings"
)

// DefaultPipeName is the default name for the Windows named pipe.
const DefaultPipeName = "cruxd"

// DefaultPipePath returns the full Windows named pipe path, in the
// \\.\pipe\{name} format.
func DefaultPipePath() string {
	return `\\.\pipe\` + DefaultPipeName
}

// PipePath returns the named pipe path for the daemon. The
// CRUXD_PIPE_NAME environment variable overrides the default; a value
// already carrying the \\.\pipe\ prefix is used as-is.
func PipePath() string {
	if name := os.Getenv(PipeNameEnv); name != "" {
		if strings.HasPrefix(name, `\\.\pipe\`) {
			return name
		}
		return `\\.\pipe\` + name
	}
	return DefaultPipePath()
}
