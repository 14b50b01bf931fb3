//go:build !windows

package cmd

import (
	"log"
	"os"

	"github.com/cruxd/cruxd/pkg/logger"
)

func newDaemonLogger() logger.Logger {
	return logger.NewStandard(log.New(os.Stderr, "", log.LstdFlags))
}
