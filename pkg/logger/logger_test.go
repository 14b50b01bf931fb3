package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestStandard_Prefixes(t *testing.T) {
	cases := []struct {
		name   string
		emit   func(Logger)
		prefix string
		want   string
	}{
		{"info", func(l Logger) { l.Info("check cycle %d", 3) }, "[INFO]", "check cycle 3"},
		{"warning", func(l Logger) { l.Warning("retry %s", "soon") }, "[WARN]", "retry soon"},
		{"error", func(l Logger) { l.Error("install failed: %v", "boom") }, "[ERROR]", "install failed: boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := NewStandard(log.New(buf, "", 0))
			tc.emit(l)
			out := buf.String()
			if !strings.Contains(out, tc.prefix) {
				t.Errorf("expected %s prefix, got: %s", tc.prefix, out)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("expected message content, got: %s", out)
			}
		})
	}
}

func TestStandard_CloseIsNop(t *testing.T) {
	l := NewStandard(log.New(&bytes.Buffer{}, "", 0))
	if err := l.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	m.Info("a %d", 1)
	m.Warning("b")
	m.Error("c %s", "x")
	m.Close()

	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "a 1" {
		t.Errorf("InfoCalls = %v", m.InfoCalls)
	}
	if len(m.WarningCalls) != 1 || m.WarningCalls[0] != "b" {
		t.Errorf("WarningCalls = %v", m.WarningCalls)
	}
	if len(m.ErrorCalls) != 1 || m.ErrorCalls[0] != "c x" {
		t.Errorf("ErrorCalls = %v", m.ErrorCalls)
	}
	if !m.CloseCalled {
		t.Error("CloseCalled not set")
	}
}

type closeFailLogger struct {
	Nop
	err error
}

func (c *closeFailLogger) Close() error { return c.err }

func TestMulti_FansOutAndCloses(t *testing.T) {
	a, b := NewMock(), NewMock()
	m := NewMulti(a, b)

	m.Info("hello")
	m.Warning("careful")
	m.Error("broken")

	for _, mock := range []*Mock{a, b} {
		if len(mock.InfoCalls) != 1 || len(mock.WarningCalls) != 1 || len(mock.ErrorCalls) != 1 {
			t.Fatalf("backend missed messages: %+v", mock)
		}
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if !a.CloseCalled || !b.CloseCalled {
		t.Fatal("not all backends closed")
	}
}

func TestMulti_CloseReturnsFirstError(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	tail := NewMock()
	m := NewMulti(&closeFailLogger{err: first}, &closeFailLogger{err: second}, tail)

	if err := m.Close(); err != first {
		t.Fatalf("Close() = %v, want %v", err, first)
	}
	if !tail.CloseCalled {
		t.Fatal("close must reach every backend despite earlier failures")
	}
}

func TestNop_Discards(t *testing.T) {
	l := NewNop()
	l.Info("x")
	l.Warning("x")
	l.Error("x")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}
