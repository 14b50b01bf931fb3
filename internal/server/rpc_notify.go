package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"

	"github.com/cruxd/cruxd/pkg/logger"
)

// RPCNotifier maintains the set of connected jrpc2 websocket servers
// and broadcasts push notifications to all of them.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger
}

func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
	}
}

// Register adds a server to the broadcast set.
func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

// Unregister removes a server from the broadcast set.
func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast sends a push notification to every registered server.
// Servers that fail the send, usually because the client went away,
// are unregistered.
func (n *RPCNotifier) Broadcast(method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	var failed []*jrpc2.Server
	for _, srv := range servers {
		if err := srv.Notify(context.Background(), method, params); err != nil {
			if n.log != nil {
				n.log.Warning("rpc: push failed: %v", err)
			}
			failed = append(failed, srv)
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

// Count returns the number of registered servers.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

// Notification param types for update events.

// UpdateFoundNotification is sent when a check learns of a newer
// version.
type UpdateFoundNotification struct {
	ComponentID string `json:"componentId"`
	Version     string `json:"version"`
	NextVersion string `json:"nextVersion"`
}

// UpdateAppliedNotification is sent when an update installs cleanly.
type UpdateAppliedNotification struct {
	ComponentID string `json:"componentId"`
	Version     string `json:"version"`
}

// UpdateErrorNotification is sent when a cycle ends in failure.
type UpdateErrorNotification struct {
	ComponentID string `json:"componentId"`
	Error       string `json:"error"`
	ErrorCode   int    `json:"errorCode,omitempty"`
}
