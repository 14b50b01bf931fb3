package logger

import (
	"log"
	"strings"
)

// infoWriter routes raw log writes to a Logger's Info level.
type infoWriter struct {
	l Logger
}

func (w infoWriter) Write(p []byte) (int, error) {
	w.l.Info("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// ToStdLogger adapts a Logger for components that take a stdlib
// *log.Logger. Everything written through it surfaces at Info level.
func ToStdLogger(l Logger) *log.Logger {
	return log.New(infoWriter{l}, "", 0)
}
