//go:build windows

package logger

// eventWriter is the slice of *eventlog.Log the EventLog backend uses,
// abstracted so tests can substitute a recorder.
type eventWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}
