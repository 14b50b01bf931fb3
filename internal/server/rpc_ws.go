package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel
// interface, bridging one websocket connection to one jrpc2 server.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// handleWS upgrades the request and serves JSON-RPC over the socket
// until the client goes away. The per-connection server is registered
// with the notifier for the duration, so update events reach the
// client as push notifications.
func (rs *RPCServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		return
	}

	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(ch)

	if rs.notifier != nil {
		rs.notifier.Register(srv)
		defer rs.notifier.Unregister(srv)
	}

	srv.Wait()
}
