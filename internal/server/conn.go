package server

import (
	"net"
	"sync"
)

// SyncConn serializes frame reads and writes on one connection, so a
// handler reply and a pushed watch event never interleave mid-frame.
type SyncConn struct {
	Conn     net.Conn
	rmu, wmu sync.Mutex
}

func NewSyncConn(conn net.Conn) *SyncConn {
	return &SyncConn{Conn: conn}
}

func (s *SyncConn) Write(b []byte) error {
	return write(&s.wmu, s.Conn, b)
}

func (s *SyncConn) Read() ([]byte, error) {
	return read(&s.rmu, s.Conn)
}
