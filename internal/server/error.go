package server

// ErrorType is the severity of an update-cycle error pushed to
// watching clients.
type ErrorType int

const (
	// ErrorTypeCritical marks a failure that ended the cycle.
	ErrorTypeCritical ErrorType = iota
	// ErrorTypeWarning marks a recoverable failure, such as a
	// differential attempt falling back to the full artifact.
	ErrorTypeWarning
)

// Error is the last error memo kept per component for watch clients
// that attach after the failure happened.
type Error struct {
	Type    ErrorType `json:"error_type"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}
