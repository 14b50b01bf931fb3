// Package api wires the update engine to the daemon's control
// surfaces. It implements both the framed-socket handler set and the
// server.Engine interface backing the JSON-RPC bridge, so the two
// transports share one implementation of every operation.
package api

import (
	"errors"

	"github.com/spf13/afero"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/pingstore"
	"github.com/cruxd/cruxd/internal/server"
	"github.com/cruxd/cruxd/pkg/cruxlib"
	"github.com/cruxd/cruxd/pkg/logger"
)

// Options carries the collaborators the API layer drives. Service and
// Queue are required; Journal and Notifier may be nil when the daemon
// runs without an outcome journal or without the RPC surface.
type Options struct {
	Service  *cruxlib.UpdateService
	Queue    *cruxlib.TaskQueue
	Journal  *pingstore.Store
	Notifier *server.RPCNotifier
	// Fs backs the installers built for registered components.
	// Defaults to the OS filesystem.
	Fs      afero.Fs
	Version string
	Commit  string
}

type Api struct {
	log      logger.Logger
	svc      *cruxlib.UpdateService
	queue    *cruxlib.TaskQueue
	journal  *pingstore.Store
	notifier *server.RPCNotifier
	pool     *server.Pool
	fs       afero.Fs
	version  string
	commit   string
}

func NewApi(l logger.Logger, opts *Options) (*Api, error) {
	if opts == nil || opts.Service == nil || opts.Queue == nil {
		return nil, errors.New("api: service and queue are required")
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Api{
		log:      l,
		svc:      opts.Service,
		queue:    opts.Queue,
		journal:  opts.Journal,
		notifier: opts.Notifier,
		fs:       fs,
		version:  opts.Version,
		commit:   opts.Commit,
	}, nil
}

// RegisterHandlers attaches every socket method to the server and
// keeps its pool for event broadcasting.
func (s *Api) RegisterHandlers(srv *server.Server) {
	s.pool = srv.Pool()

	srv.RegisterHandler(common.UPDATE_REGISTER, s.registerHandler)
	srv.RegisterHandler(common.UPDATE_CHECK_NOW, s.checkNowHandler)
	srv.RegisterHandler(common.UPDATE_CHECK_ALL, s.checkAllHandler)
	srv.RegisterHandler(common.UPDATE_UPDATE_SET, s.updateSetHandler)
	srv.RegisterHandler(common.UPDATE_STATUS, s.statusHandler)
	srv.RegisterHandler(common.UPDATE_LIST, s.listHandler)
	srv.RegisterHandler(common.UPDATE_HISTORY, s.historyHandler)
	srv.RegisterHandler(common.UPDATE_WATCHING, s.watchingHandler)
	srv.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
	srv.RegisterHandler(common.UPDATE_STOP, s.stopHandler)
}

func (s *Api) Close() error {
	if s.journal != nil {
		return s.journal.Close()
	}
	return nil
}
