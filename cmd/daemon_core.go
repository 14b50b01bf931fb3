package cmd

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"time"

	version "github.com/hashicorp/go-version"

	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/internal/api"
	"github.com/cruxd/cruxd/internal/pingstore"
	"github.com/cruxd/cruxd/internal/scheduler"
	"github.com/cruxd/cruxd/internal/server"
	"github.com/cruxd/cruxd/pkg/cruxlib"
	"github.com/cruxd/cruxd/pkg/logger"
)

const journalFileName = "outcomes.db"

// DaemonComponents holds every initialized daemon collaborator, so
// console startup and tests share one initialization and teardown
// path.
type DaemonComponents struct {
	Journal   *pingstore.Store
	Drainer   *pingstore.Drainer
	Service   *cruxlib.UpdateService
	Queue     *cruxlib.TaskQueue
	Scheduler *scheduler.Scheduler
	Api       *api.Api
	Server    *server.Server

	cancel    context.CancelFunc
	logger    logger.Logger
	stdLogger *log.Logger
}

// Close releases daemon resources in reverse order of initialization.
func (c *DaemonComponents) Close() {
	if c.stdLogger != nil {
		c.stdLogger.Println("shutting down daemon")
	}
	if c.Server != nil {
		_ = c.Server.Shutdown()
	}
	if c.Service != nil {
		c.Service.Stop()
	}
	if c.cancel != nil {
		c.cancel()
	}
	if c.Api != nil {
		_ = c.Api.Close()
	}
	if c.stdLogger != nil {
		c.stdLogger.Println("daemon stopped")
	}
}

// initDaemonComponents wires the whole daemon from its configuration.
// On error, any partially initialized components are cleaned up
// before returning. Declared as a variable so tests can stub it.
var initDaemonComponents = func(l logger.Logger, cfg *DaemonConfig) (*DaemonComponents, error) {
	stdLog := logger.ToStdLogger(l)
	ctx, cancel := context.WithCancel(context.Background())

	var client *http.Client
	if cfg.Engine.Proxy != "" {
		var err error
		client, err = cruxlib.NewHTTPClientWithProxy(cfg.Engine.Proxy)
		if err != nil {
			cancel()
			return nil, err
		}
	}

	engineCfg, err := buildEngineConfig(cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	journal, drainer, pings, err := buildJournal(cfg, client, l)
	if err != nil {
		cancel()
		return nil, err
	}

	svc, err := cruxlib.NewUpdateService(ctx, engineCfg, &cruxlib.ServiceOpts{
		Fetcher:  cruxlib.NewFetcher(client, nil, "", stdLog),
		Pipeline: api.NewZipPipeline(nil, l),
		Pings:    pings,
		Logger:   stdLog,
	})
	if err != nil {
		if journal != nil {
			journal.Close()
		}
		cancel()
		return nil, err
	}

	var notifier *server.RPCNotifier
	var rpc *server.RPCServer
	if cfg.Daemon.RPCSecret != "" {
		notifier = server.NewRPCNotifier(l)
	}
	queue := cruxlib.NewTaskQueue(stdLog)
	a, err := api.NewApi(l, &api.Options{
		Service:  svc,
		Queue:    queue,
		Journal:  journal,
		Notifier: notifier,
		Version:  currentBuildArgs.Version,
		Commit:   currentBuildArgs.Commit,
	})
	if err != nil {
		if journal != nil {
			journal.Close()
		}
		cancel()
		return nil, err
	}
	if notifier != nil {
		rpc = server.NewRPCServer(&server.RPCConfig{
			Secret:    cfg.Daemon.RPCSecret,
			ListenAll: cfg.Daemon.ListenAll,
		}, a, notifier)
	}

	serv := server.NewServer(l, rpc, cfg.port())
	a.RegisterHandlers(serv)

	sched := scheduler.New(ctx, func(id string) {
		if id == scheduler.AllComponents {
			if _, err := svc.CheckAll(); err != nil {
				l.Warning("scheduled sweep failed: %v", err)
			}
			return
		}
		if err := svc.CheckForUpdateSoon(id); err != nil {
			l.Warning("scheduled check of %s failed: %v", id, err)
		}
	})

	dc := &DaemonComponents{
		Journal:   journal,
		Drainer:   drainer,
		Service:   svc,
		Queue:     queue,
		Scheduler: sched,
		Api:       a,
		Server:    serv,
		cancel:    cancel,
		logger:    l,
		stdLogger: stdLog,
	}
	if err := dc.registerConfigured(cfg); err != nil {
		dc.Close()
		return nil, err
	}
	return dc, nil
}

// registerConfigured registers every component from the config file
// and schedules its cron checks.
func (c *DaemonComponents) registerConfigured(cfg *DaemonConfig) error {
	for _, comp := range cfg.Components {
		resp, err := c.Api.Register(&common.RegisterParams{
			Name:        comp.Name,
			PKHashHex:   comp.PKHash,
			Version:     comp.Version,
			Fingerprint: comp.Fingerprint,
			InstallDir:  comp.InstallDir,
		})
		if err != nil {
			return err
		}
		c.stdLogger.Printf("registered component %s (%s)", comp.Name, resp.ComponentId)
		if comp.Cron == "" {
			continue
		}
		next, err := scheduler.NextOccurrence(comp.Cron, time.Now())
		if err != nil {
			return err
		}
		c.Scheduler.Add(scheduler.CheckEvent{
			ComponentID: resp.ComponentId,
			TriggerAt:   next,
			CronExpr:    comp.Cron,
		})
	}
	return nil
}

func buildEngineConfig(cfg *DaemonConfig) (*cruxlib.Config, error) {
	engineCfg := cruxlib.NewDefaultConfig()
	engineCfg.UpdateURL = cfg.Engine.UpdateURL
	engineCfg.PingURL = cfg.Engine.PingURL
	engineCfg.DeltasEnabled = cfg.deltasEnabled()
	engineCfg.ExtraRequestParams = cfg.Engine.ExtraParams
	if cfg.Engine.URLSizeLimit > 0 {
		engineCfg.URLSizeLimit = cfg.Engine.URLSizeLimit
	}
	if d, _ := parseDuration(cfg.Engine.CheckInterval); d > 0 {
		engineCfg.NextCheckDelay = d
		engineCfg.MinimumReCheckWait = d
	}
	if d, _ := parseDuration(cfg.Engine.InitialDelay); d > 0 {
		engineCfg.InitialDelay = d
	}
	if cfg.Engine.HostVersion != "" {
		hv, err := version.NewVersion(cfg.Engine.HostVersion)
		if err != nil {
			return nil, err
		}
		engineCfg.HostVersion = hv
	}
	return engineCfg, nil
}

// buildJournal opens the outcome journal and its drainer. A journal
// path of "off" runs the daemon without persistence; outcomes then go
// straight to the ping endpoint, or nowhere when that is unset too.
func buildJournal(cfg *DaemonConfig, client *http.Client, l logger.Logger) (*pingstore.Store, *pingstore.Drainer, cruxlib.PingReporter, error) {
	if cfg.Daemon.JournalPath == "off" {
		if cfg.Engine.PingURL == "" {
			return nil, nil, nil, nil
		}
		httpClient := client
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		sender := cruxlib.NewHTTPPingSender(cfg.Engine.PingURL, httpClient, logger.ToStdLogger(l))
		return nil, nil, sender, nil
	}
	path := cfg.Daemon.JournalPath
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, nil, nil, err
		}
		path = filepath.Join(dir, journalFileName)
	}
	journal, err := pingstore.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	drainer := pingstore.NewDrainer(journal, cfg.Engine.PingURL, client, l, 0)
	return journal, drainer, pingstore.NewReporter(journal, l), nil
}
