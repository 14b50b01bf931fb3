//go:build !windows

package cruxcli

import (
	"fmt"
	"net"
)

// dial connects to the daemon, preferring the unix socket with a TCP
// fallback.
func dial() (net.Conn, error) {
	if forceTCP() {
		return dialFunc("tcp", tcpAddress())
	}
	debugLog("connecting via unix socket at %s", socketPath())
	conn, unixErr := dialFunc("unix", socketPath())
	if unixErr != nil {
		debugLog("unix socket failed: %v, falling back to TCP", unixErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: unix socket error: %v; tcp error: %w", unixErr, err)
		}
		return conn, nil
	}
	return conn, nil
}

// probe checks whether something is accepting connections at path.
func probe(path string) bool {
	conn, err := net.DialTimeout("unix", path, socketDialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
