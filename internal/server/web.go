package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/pkg/logger"
)

// WebServer exposes the daemon over HTTP alongside the local socket.
// It serves three endpoints: /events streams component updates to
// websocket subscribers through the watcher pool, /rpc bridges
// JSON-RPC over plain HTTP POST, and /ws runs the full JSON-RPC
// session with server notifications over a websocket.
type WebServer struct {
	port   int
	log    logger.Logger
	pool   *Pool
	rpc    *RPCServer
	server *http.Server
	mu     sync.Mutex
}

func NewWebServer(l logger.Logger, pool *Pool, rpc *RPCServer, port int) *WebServer {
	return &WebServer{port: port, log: l, pool: pool, rpc: rpc}
}

// handleEvents subscribes a websocket connection to broadcast frames.
// The client sends one or more JSON messages naming a component id, or
// the "*" wildcard, and then receives every frame broadcast for those
// subscriptions until it disconnects.
func (s *WebServer) handleEvents(conn *websocket.Conn) {
	defer s.pool.DropConn(conn)
	defer conn.Close()
	for {
		var data []byte
		err := websocket.Message.Receive(conn, &data)
		if err != nil {
			if err != io.EOF {
				s.log.Warning("web: events receive: %v", err)
			}
			return
		}
		var sub common.InputComponentId
		if err := json.Unmarshal(data, &sub); err != nil {
			s.log.Warning("web: bad subscribe message: %v", err)
			continue
		}
		if sub.ComponentId == "" {
			continue
		}
		s.pool.AddWatch(sub.ComponentId, conn)
	}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/events", websocket.Handler(s.handleEvents))
	if s.rpc != nil {
		mux.Handle("/rpc", requireToken(s.rpc.secret, s.rpc.bridge))
		mux.Handle("/ws", requireToken(s.rpc.secret, http.HandlerFunc(s.rpc.handleWS)))
	}
	return mux
}

func (s *WebServer) addr() string {
	host := "127.0.0.1"
	if s.rpc != nil && s.rpc.listenAll {
		host = ""
	}
	return fmt.Sprintf("%s:%d", host, s.port)
}

func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	s.mu.Unlock()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Expected during shutdown
	}
	return err
}

// Shutdown gracefully stops the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
