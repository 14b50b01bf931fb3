// Package logger provides the logging backends used by the cruxd
// daemon and its command-line front end. Console output goes through
// the stdlib log package; Windows service installs can add the Event
// Log backend on top of it.
package logger

import (
	"fmt"
	"log"
)

// Logger is the interface the daemon components log through.
type Logger interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})

	// Close releases backend resources, if any. Safe to call more
	// than once.
	Close() error
}

// Standard wraps a stdlib *log.Logger with level prefixes. It is the
// backend used when cruxd runs in the foreground.
type Standard struct {
	l *log.Logger
}

func NewStandard(l *log.Logger) *Standard {
	return &Standard{l: l}
}

func (s *Standard) Info(format string, args ...interface{}) {
	s.l.Printf("[INFO] "+format, args...)
}

func (s *Standard) Warning(format string, args ...interface{}) {
	s.l.Printf("[WARN] "+format, args...)
}

func (s *Standard) Error(format string, args ...interface{}) {
	s.l.Printf("[ERROR] "+format, args...)
}

func (s *Standard) Close() error { return nil }

// Nop discards everything.
type Nop struct{}

func NewNop() *Nop { return &Nop{} }

func (Nop) Info(string, ...interface{})    {}
func (Nop) Warning(string, ...interface{}) {}
func (Nop) Error(string, ...interface{})   {}
func (Nop) Close() error                   { return nil }

// Mock records formatted messages for assertions in tests.
type Mock struct {
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Info(format string, args ...interface{}) {
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *Mock) Warning(format string, args ...interface{}) {
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *Mock) Error(format string, args ...interface{}) {
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *Mock) Close() error {
	m.CloseCalled = true
	return nil
}

var (
	_ Logger = (*Standard)(nil)
	_ Logger = (*Nop)(nil)
	_ Logger = (*Mock)(nil)
)
