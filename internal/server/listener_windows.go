//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"

	"github.com/cruxd/cruxd/common"
)

// pipeSecurityDescriptor restricts pipe access to SYSTEM, the built-in
// Administrators group and the creator owner, so other local users
// cannot drive the update daemon.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener prefers a named pipe and falls back to a TCP listener
// on the configured loopback port.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Info("server: forced TCP mode")
		return net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	}

	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	}
	l, err := winio.ListenPipe(pipePath(), cfg)
	if err != nil {
		s.log.Warning("server: named pipe unavailable (%v), trying TCP", err)
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("listen: %w", tcpErr)
		}
		return tcpListener, nil
	}
	return l, nil
}
