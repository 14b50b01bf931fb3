package server

import (
	"bytes"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cruxd/cruxd/pkg/logger"
)

// fakeConn records writes, optionally failing them.
type fakeConn struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	fail bool
}

func (c *fakeConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return 0, errors.New("broken pipe")
	}
	return c.buf.Write(b)
}

func (c *fakeConn) written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.buf.Bytes()...)
}

func (c *fakeConn) Read([]byte) (int, error)         { return 0, nil }
func (c *fakeConn) Close() error                     { return nil }
func (c *fakeConn) LocalAddr() net.Addr              { return nil }
func (c *fakeConn) RemoteAddr() net.Addr             { return nil }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func TestPoolAddWatchDedupes(t *testing.T) {
	p := NewPool(logger.NewNop())
	conn := &fakeConn{}

	p.AddWatch("abc", conn)
	p.AddWatch("abc", conn)

	p.Broadcast("abc", []byte("x"))
	want := append(intToBytes(1), 'x')
	if got := conn.written(); !bytes.Equal(got, want) {
		t.Errorf("written %v, want one frame %v", got, want)
	}
}

func TestPoolBroadcastReachesWildcard(t *testing.T) {
	p := NewPool(logger.NewNop())
	direct := &fakeConn{}
	wild := &fakeConn{}
	other := &fakeConn{}

	p.AddWatch("abc", direct)
	p.AddWatch(WatchAll, wild)
	p.AddWatch("def", other)

	p.Broadcast("abc", []byte("ev"))

	if len(direct.written()) == 0 {
		t.Error("direct watcher got nothing")
	}
	if len(wild.written()) == 0 {
		t.Error("wildcard watcher got nothing")
	}
	if len(other.written()) != 0 {
		t.Error("unrelated watcher got a frame")
	}
}

func TestPoolBroadcastDropsFailedConn(t *testing.T) {
	p := NewPool(logger.NewNop())
	bad := &fakeConn{fail: true}
	good := &fakeConn{}

	p.AddWatch("abc", bad)
	p.AddWatch("abc", good)

	p.Broadcast("abc", []byte("ev"))
	if !p.HasWatchers("abc") {
		t.Fatal("good watcher dropped too")
	}

	// Second broadcast must not touch the dropped conn again.
	p.Broadcast("abc", []byte("ev"))
	if n := len(good.written()); n != 2*(4+2) {
		t.Errorf("good conn got %d bytes, want two frames", n)
	}
}

func TestPoolDropConnRemovesAllSubscriptions(t *testing.T) {
	p := NewPool(logger.NewNop())
	conn := &fakeConn{}

	p.AddWatch("abc", conn)
	p.AddWatch(WatchAll, conn)
	p.DropConn(conn)

	if p.HasWatchers("abc") {
		t.Error("still has watchers after DropConn")
	}
}

func TestPoolErrorMemoNoDowngrade(t *testing.T) {
	p := NewPool(logger.NewNop())

	p.WriteError("abc", ErrorTypeCritical, "download failed")
	p.WriteError("abc", ErrorTypeWarning, "diff fell back")

	e := p.GetError("abc")
	if e == nil || e.Type != ErrorTypeCritical || e.Message != "download failed" {
		t.Errorf("memo = %+v, want the original critical error", e)
	}

	// A later critical overwrites.
	p.WriteError("abc", ErrorTypeCritical, "install failed")
	if e := p.GetError("abc"); e.Message != "install failed" {
		t.Errorf("memo = %+v, want the newer critical error", e)
	}

	p.ClearError("abc")
	if p.GetError("abc") != nil {
		t.Error("memo survived ClearError")
	}
}

func TestPoolWarningUpgradesToCritical(t *testing.T) {
	p := NewPool(logger.NewNop())

	p.WriteError("abc", ErrorTypeWarning, "diff fell back")
	p.WriteError("abc", ErrorTypeCritical, "install failed")

	e := p.GetError("abc")
	if e == nil || e.Type != ErrorTypeCritical {
		t.Errorf("memo = %+v, want critical", e)
	}
}
