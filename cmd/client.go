package cmd

import (
	"github.com/cruxd/cruxd/pkg/cruxcli"
)

// newDaemonClient connects to the daemon, spawning it first when it
// is not running yet. Declared as a variable so tests substitute a
// client wired to a fake daemon.
var newDaemonClient = func() (*cruxcli.Client, error) {
	if err := cruxcli.EnsureDaemon(); err != nil {
		return nil, err
	}
	return cruxcli.NewClient()
}
