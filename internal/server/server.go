// Package server implements the cruxd control plane: a length-framed
// JSON protocol on the platform socket for the CLI, plus an HTTP
// surface carrying the JSON-RPC bridge and the websocket event stream.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/pkg/logger"
)

// Server accepts CLI connections on the platform socket and dispatches
// requests to registered handlers. Watching clients stay connected and
// receive pushed update events through the pool.
type Server struct {
	log      logger.Logger
	pool     *Pool
	ws       *WebServer
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a server. The platform socket is the primary
// transport, with a TCP fallback on the given port; the web surface
// binds port+1.
func NewServer(l logger.Logger, rpc *RPCServer, port int) *Server {
	pool := NewPool(l)
	return &Server{
		log:     l,
		pool:    pool,
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
		ws:      NewWebServer(l, pool, rpc, port+1),
	}
}

// Pool exposes the watch-subscription pool so the API layer can push
// events through it.
func (s *Server) Pool() *Pool {
	return s.pool
}

// RegisterHandler associates a handler with a request method.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Start begins listening and blocks until the context is cancelled.
// Each accepted connection is served on its own goroutine.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		if err := s.ws.Start(); err != nil {
			s.log.Error("server: web surface: %v", err)
		}
	}()

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Error("server: accept: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown closes the listener, the web surface and the socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Error("server: close listener: %v", err)
		}
		s.listener = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ws.Shutdown(shutdownCtx); err != nil {
		s.log.Error("server: web shutdown: %v", err)
	}

	if err := cleanupSocket(); err != nil {
		s.log.Error("server: remove socket: %v", err)
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer func() {
		s.pool.DropConn(conn)
		conn.Close()
	}()
	for {
		buf, err := sconn.Read()
		if err != nil {
			if err != io.EOF {
				s.log.Error("server: read: %v", err)
			}
			return
		}
		if err := s.dispatch(sconn, buf); err != nil {
			s.log.Error("server: %v", err)
			return
		}
	}
}

func (s *Server) dispatch(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		if err := sconn.Write(CreateError("unknown method: " + string(req.Method))); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		return nil
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		if err := sconn.Write(InitError(err)); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		return nil
	}
	if err := sconn.Write(MakeResult(utype, msg)); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
