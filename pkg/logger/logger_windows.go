//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event ids recorded in the Windows Event Log.
const (
	eventIDInfo    uint32 = 1
	eventIDWarning uint32 = 2
	eventIDError   uint32 = 3
)

// EventLog writes to the Windows Event Log. The event source must be
// registered with eventlog.InstallAsEventCreate during service install
// before this backend can open it.
type EventLog struct {
	log eventWriter
}

// NewEventLog opens the named event source, typically the cruxd
// service name.
func NewEventLog(source string) (*EventLog, error) {
	elog, err := eventlog.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &EventLog{log: elog}, nil
}

// Write failures are dropped: the daemon must keep running even when
// the event log is unavailable.

func (e *EventLog) Info(format string, args ...interface{}) {
	_ = e.log.Info(eventIDInfo, fmt.Sprintf(format, args...))
}

func (e *EventLog) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(eventIDWarning, fmt.Sprintf(format, args...))
}

func (e *EventLog) Error(format string, args ...interface{}) {
	_ = e.log.Error(eventIDError, fmt.Sprintf(format, args...))
}

func (e *EventLog) Close() error {
	if e.log != nil {
		return e.log.Close()
	}
	return nil
}

var _ Logger = (*EventLog)(nil)
