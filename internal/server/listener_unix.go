//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/cruxd/cruxd/common"
)

// createListener prefers a Unix domain socket and falls back to a TCP
// listener on the configured loopback port.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Info("server: forced TCP mode")
		return net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	}

	path := socketPath()
	_ = os.Remove(path)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: path,
		Net:  "unix",
	})
	if err != nil {
		s.log.Warning("server: unix socket unavailable (%v), trying TCP", err)
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("listen: %w", tcpErr)
		}
		return tcpListener, nil
	}
	setSocketPermissions(path)
	return l, nil
}
