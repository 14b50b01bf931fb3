package server

import (
	"context"
	"errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/pkg/cruxlib"
)

// JSON-RPC error codes for component operations.
const (
	codeComponentNotFound = jrpc2.Code(-32001)
	codeCheckRejected     = jrpc2.Code(-32002)
	codeInvalidParams     = jrpc2.Code(-32602)
)

// Engine is the surface of the update service the RPC layer drives.
// The API layer implements it; the indirection keeps this package free
// of installer construction and journal plumbing.
type Engine interface {
	Register(p *common.RegisterParams) (*common.RegisterResponse, error)
	CheckNow(componentID string) (*common.CheckNowResponse, error)
	CheckAll() (*common.CheckAllResponse, error)
	UpdateSet(componentIDs []string) (*common.UpdateSetResponse, error)
	Status(componentID string) (*common.StatusResponse, error)
	List() (*common.ListResponse, error)
	History(componentID string, limit int) (*common.HistoryResponse, error)
	Version() *common.VersionResponse
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // auth token, empty means the RPC surface is disabled
	ListenAll bool   // bind 0.0.0.0 instead of loopback
}

// RPCServer exposes the engine over JSON-RPC 2.0, both as an HTTP
// bridge and per-connection over websockets.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	secret    string
	listenAll bool
	engine    Engine
	notifier  *RPCNotifier
}

// EmptyResult is the response of methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates the RPC surface over engine. The notifier may
// be nil when push notifications are not wanted.
func NewRPCServer(cfg *RPCConfig, engine Engine, notifier *RPCNotifier) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		listenAll: cfg.ListenAll,
		engine:    engine,
		notifier:  notifier,
	}

	rs.methods = handler.Map{
		"system.getVersion":   handler.New(rs.systemGetVersion),
		"component.register":  handler.New(rs.componentRegister),
		"component.check":     handler.New(rs.componentCheck),
		"component.checkAll":  handler.New(rs.componentCheckAll),
		"component.updateSet": handler.New(rs.componentUpdateSet),
		"component.status":    handler.New(rs.componentStatus),
		"component.list":      handler.New(rs.componentList),
		"component.history":   handler.New(rs.componentHistory),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResponse, error) {
	return rs.engine.Version(), nil
}

func (rs *RPCServer) componentRegister(_ context.Context, p *common.RegisterParams) (*common.RegisterResponse, error) {
	if p.PKHashHex == "" || p.Version == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "pk_hash and version are required"}
	}
	resp, err := rs.engine.Register(p)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	return resp, nil
}

func (rs *RPCServer) componentCheck(_ context.Context, p *common.CheckNowParams) (*common.CheckNowResponse, error) {
	if p.ComponentId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: component_id"}
	}
	resp, err := rs.engine.CheckNow(p.ComponentId)
	if err != nil {
		return nil, checkError(err)
	}
	return resp, nil
}

func (rs *RPCServer) componentCheckAll(_ context.Context) (*common.CheckAllResponse, error) {
	resp, err := rs.engine.CheckAll()
	if err != nil {
		return nil, &jrpc2.Error{Code: codeCheckRejected, Message: err.Error()}
	}
	return resp, nil
}

func (rs *RPCServer) componentUpdateSet(_ context.Context, p *common.UpdateSetParams) (*common.UpdateSetResponse, error) {
	if len(p.ComponentIds) == 0 {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: component_ids"}
	}
	resp, err := rs.engine.UpdateSet(p.ComponentIds)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeCheckRejected, Message: err.Error()}
	}
	return resp, nil
}

func (rs *RPCServer) componentStatus(_ context.Context, p *common.StatusParams) (*common.StatusResponse, error) {
	if p.ComponentId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: component_id"}
	}
	resp, err := rs.engine.Status(p.ComponentId)
	if err != nil {
		return nil, checkError(err)
	}
	return resp, nil
}

func (rs *RPCServer) componentList(_ context.Context) (*common.ListResponse, error) {
	return rs.engine.List()
}

func (rs *RPCServer) componentHistory(_ context.Context, p *common.HistoryParams) (*common.HistoryResponse, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	resp, err := rs.engine.History(p.ComponentId, limit)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	return resp, nil
}

// checkError maps engine errors onto RPC codes.
func checkError(err error) error {
	switch {
	case errors.Is(err, cruxlib.ErrComponentUnknown):
		return &jrpc2.Error{Code: codeComponentNotFound, Message: "component not found"}
	case errors.Is(err, cruxlib.ErrCheckInProgress),
		errors.Is(err, cruxlib.ErrCheckTooSoon),
		errors.Is(err, cruxlib.ErrServiceStopped):
		return &jrpc2.Error{Code: codeCheckRejected, Message: err.Error()}
	default:
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
