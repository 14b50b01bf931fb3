//go:build windows

package cmd

import (
	"log"
	"os"

	"github.com/cruxd/cruxd/pkg/logger"
)

const eventLogSource = "cruxd"

// newDaemonLogger adds the Event Log backend when the cruxd event
// source is registered, so daemons started by the service manager
// still surface errors somewhere visible.
func newDaemonLogger() logger.Logger {
	std := logger.NewStandard(log.New(os.Stderr, "", log.LstdFlags))
	elog, err := logger.NewEventLog(eventLogSource)
	if err != nil {
		return std
	}
	return logger.NewMulti(std, elog)
}
