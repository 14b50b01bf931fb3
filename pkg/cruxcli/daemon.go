package cruxcli

import (
	"fmt"
	"time"
)

const (
	daemonStartTimeout = 3 * time.Second
	socketPollInterval = 50 * time.Millisecond
	socketDialTimeout  = 100 * time.Millisecond
)

// EnsureDaemon checks whether a daemon is reachable and spawns one if
// not, waiting until its socket comes up.
func EnsureDaemon() error {
	path := connectionPath()
	if probe(path) {
		return nil
	}
	if err := spawnDaemon(); err != nil {
		return err
	}
	return waitForSocket(path, daemonStartTimeout)
}

func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if probe(path) {
			return nil
		}
		time.Sleep(socketPollInterval)
	}
	return fmt.Errorf("daemon failed to start within %v", timeout)
}
