// Package cruxcli is the client library for the cruxd control socket.
// It speaks the daemon's length-framed JSON protocol and is used by the
// bundled CLI as well as external Go programs embedding a component
// updater client.
package cruxcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/cruxd/cruxd/common"
)

type Client struct {
	mu   sync.Mutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient connects to a running daemon over the platform socket,
// falling back to TCP.
func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	return newClient(conn), nil
}

func newClient(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		d: &Dispatcher{
			Handlers: make(map[common.UpdateType][]Handler),
		},
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Listen blocks reading pushed updates and feeding them through the
// dispatcher until the connection closes or a handler returns
// ErrDisconnect. Used by watch-style commands after subscribing.
func (c *Client) Listen() error {
	defer c.conn.Close()
	for {
		buf, err := read(c.conn)
		if err != nil {
			return fmt.Errorf("error reading: %w", err)
		}
		if err := c.d.process(buf); err != nil {
			if errors.Is(err, ErrDisconnect) {
				return nil
			}
			return fmt.Errorf("error processing: %w", err)
		}
	}
}

// invoke performs one request-response exchange. The client lock keeps
// a concurrent Listen loop from stealing the reply frame.
func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	if err := write(c.conn, buf); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	var res Response
	if err := json.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("failed to read %s reply: %w", method, err)
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	if res.Update == nil {
		return nil, nil
	}
	return res.Update.Message, nil
}
