//go:build windows

package logger

import (
	"errors"
	"testing"
)

type eventCall struct {
	eid uint32
	msg string
}

// fakeEventWriter records event log writes and can fail on demand.
type fakeEventWriter struct {
	infos    []eventCall
	warnings []eventCall
	errs     []eventCall
	closed   bool

	writeErr error
	closeErr error
}

func (f *fakeEventWriter) Info(eid uint32, msg string) error {
	f.infos = append(f.infos, eventCall{eid, msg})
	return f.writeErr
}

func (f *fakeEventWriter) Warning(eid uint32, msg string) error {
	f.warnings = append(f.warnings, eventCall{eid, msg})
	return f.writeErr
}

func (f *fakeEventWriter) Error(eid uint32, msg string) error {
	f.errs = append(f.errs, eventCall{eid, msg})
	return f.writeErr
}

func (f *fakeEventWriter) Close() error {
	f.closed = true
	return f.closeErr
}

func TestEventLog_WritesWithEventIDs(t *testing.T) {
	fake := &fakeEventWriter{}
	l := &EventLog{log: fake}

	l.Info("started %s", "ok")
	l.Warning("slow")
	l.Error("failed")

	if len(fake.infos) != 1 || fake.infos[0].eid != eventIDInfo || fake.infos[0].msg != "started ok" {
		t.Errorf("info call = %+v", fake.infos)
	}
	if len(fake.warnings) != 1 || fake.warnings[0].eid != eventIDWarning {
		t.Errorf("warning call = %+v", fake.warnings)
	}
	if len(fake.errs) != 1 || fake.errs[0].eid != eventIDError {
		t.Errorf("error call = %+v", fake.errs)
	}
}

func TestEventLog_WriteFailuresAreDropped(t *testing.T) {
	fake := &fakeEventWriter{writeErr: errors.New("event log gone")}
	l := &EventLog{log: fake}

	// Must not panic or surface the error.
	l.Info("x")
	l.Warning("x")
	l.Error("x")
}

func TestEventLog_Close(t *testing.T) {
	fake := &fakeEventWriter{}
	l := &EventLog{log: fake}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if !fake.closed {
		t.Fatal("underlying handle not closed")
	}

	werr := errors.New("close failed")
	l = &EventLog{log: &fakeEventWriter{closeErr: werr}}
	if err := l.Close(); err != werr {
		t.Fatalf("Close() = %v, want %v", err, werr)
	}
}
