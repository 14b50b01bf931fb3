package cruxcli

import "net"

// NewClientForTesting creates a Client over an existing connection, so
// tests can drive the protocol without a daemon.
func NewClientForTesting(conn net.Conn) *Client {
	return newClient(conn)
}
