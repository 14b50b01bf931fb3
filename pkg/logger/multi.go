package logger

// Multi fans one stream of messages out to several backends, typically
// console plus the Windows Event Log when cruxd runs as a service.
type Multi struct {
	backends []Logger
}

func NewMulti(backends ...Logger) *Multi {
	return &Multi{backends: backends}
}

func (m *Multi) Info(format string, args ...interface{}) {
	for _, l := range m.backends {
		l.Info(format, args...)
	}
}

func (m *Multi) Warning(format string, args ...interface{}) {
	for _, l := range m.backends {
		l.Warning(format, args...)
	}
}

func (m *Multi) Error(format string, args ...interface{}) {
	for _, l := range m.backends {
		l.Error(format, args...)
	}
}

// Close closes every backend and returns the first failure.
func (m *Multi) Close() error {
	var first error
	for _, l := range m.backends {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ Logger = (*Multi)(nil)
