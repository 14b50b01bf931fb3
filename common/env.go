// Package common provides the shared types and constants of the cruxd
// client-server communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for a custom socket path.
	SocketPathEnv = "CRUXD_SOCKET_PATH"

	// TCPPortEnv is the environment variable for a custom TCP port.
	TCPPortEnv = "CRUXD_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "CRUXD_FORCE_TCP"

	// PipeNameEnv is the environment variable for a custom Windows
	// named pipe.
	PipeNameEnv = "CRUXD_PIPE_NAME"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "CRUXD_DEBUG"
)
