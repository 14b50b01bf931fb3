//go:build windows

package cruxcli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/cruxd/cruxd/common"
)

// dialPipeFunc points to the pipe dialer so tests can substitute a
// fake.
var dialPipeFunc = dialPipeImpl

func dialPipeImpl(path string, timeout *time.Duration) (net.Conn, error) {
	if timeout == nil {
		defaultTimeout := common.DefaultDialTimeout
		timeout = &defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

// dial connects to the daemon, preferring the named pipe with a TCP
// fallback.
func dial() (net.Conn, error) {
	if forceTCP() {
		return dialFunc("tcp", tcpAddress())
	}
	pipePath := common.PipePath()
	debugLog("connecting via named pipe at %s", pipePath)
	timeout := common.DefaultDialTimeout
	conn, pipeErr := dialPipeFunc(pipePath, &timeout)
	if pipeErr != nil {
		debugLog("named pipe failed: %v, falling back to TCP", pipeErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: named pipe error: %v; tcp error: %w", pipeErr, err)
		}
		return conn, nil
	}
	return conn, nil
}

// probe checks whether a daemon is listening on the pipe.
func probe(path string) bool {
	timeout := socketDialTimeout
	conn, err := dialPipeFunc(path, &timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
