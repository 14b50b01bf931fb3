package server

import (
	"net"
	"sync"

	"github.com/cruxd/cruxd/pkg/logger"
)

// Pool tracks which connections are watching which components, and
// remembers the last error per component so late watchers can learn
// about an already-failed cycle. The wildcard id subscribes a
// connection to every component's events.
type Pool struct {
	log logger.Logger
	mu  sync.RWMutex
	m   map[string][]net.Conn
	e   map[string]*Error
}

// WatchAll is the subscription key for events of every component.
const WatchAll = "*"

func NewPool(l logger.Logger) *Pool {
	return &Pool{
		log: l,
		m:   make(map[string][]net.Conn),
		e:   make(map[string]*Error),
	}
}

// AddWatch subscribes conn to events for the given component id.
func (p *Pool) AddWatch(uid string, conn net.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.m[uid] {
		if c == conn {
			return
		}
	}
	p.m[uid] = append(p.m[uid], conn)
}

// HasWatchers reports whether anyone is watching the component.
func (p *Pool) HasWatchers(uid string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m[uid]) > 0 || len(p.m[WatchAll]) > 0
}

// Broadcast frames and sends data to every watcher of uid and every
// wildcard watcher. The frame goes out in a single write so transports
// that preserve message boundaries, like websockets, deliver it whole.
// Connections that fail the write are dropped from the pool.
func (p *Pool) Broadcast(uid string, data []byte) {
	frame := append(intToBytes(uint32(len(data))), data...)

	p.mu.RLock()
	conns := make([]net.Conn, 0, len(p.m[uid])+len(p.m[WatchAll]))
	conns = append(conns, p.m[uid]...)
	if uid != WatchAll {
		conns = append(conns, p.m[WatchAll]...)
	}
	p.mu.RUnlock()

	for _, conn := range conns {
		if _, err := conn.Write(frame); err != nil {
			p.log.Warning("pool: dropping watcher for %s: %v", uid, err)
			p.DropConn(conn)
		}
	}
}

// DropConn removes conn from every subscription. Called when a client
// disconnects.
func (p *Pool) DropConn(conn net.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for uid, conns := range p.m {
		kept := conns[:0]
		for _, c := range conns {
			if c != conn {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			delete(p.m, uid)
		} else {
			p.m[uid] = kept
		}
	}
}

// WriteError memoizes an error for uid. An existing critical error is
// never downgraded by a later warning.
func (p *Pool) WriteError(uid string, errType ErrorType, errMessage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.e[uid]; ok && prev.Type == ErrorTypeCritical && errType != ErrorTypeCritical {
		return
	}
	p.e[uid] = &Error{errType, errMessage}
}

// ClearError forgets the memoized error for uid, typically when a new
// check cycle begins.
func (p *Pool) ClearError(uid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.e, uid)
}

func (p *Pool) GetError(uid string) *Error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.e[uid]
}
