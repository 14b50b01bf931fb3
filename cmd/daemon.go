package cmd

import (
	"github.com/urfave/cli"

	"github.com/cruxd/cruxd/cmd/common"
)

var configPath string

var daemonFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "config, c",
		Usage:       "path to the daemon configuration file",
		Destination: &configPath,
	},
}

func daemon(ctx *cli.Context) error {
	cfg, err := loadDaemonConfig(configPath)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "load_config", err)
		return nil
	}
	l := newDaemonLogger()
	defer l.Close()

	dc, err := initDaemonComponents(l, cfg)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init", err)
		return nil
	}
	defer dc.Close()

	if err := WritePidFile(); err != nil {
		l.Warning("daemon: write pid file: %v", err)
	} else {
		defer func() {
			if err := RemovePidFile(); err != nil {
				l.Warning("daemon: remove pid file: %v", err)
			}
		}()
	}

	runCtx, cancel := setupShutdownHandler()
	defer cancel()

	if dc.Drainer != nil {
		go dc.Drainer.Run(runCtx)
	}
	if err := dc.Service.Start(); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "engine_start", err)
		return nil
	}
	return dc.Server.Start(runCtx)
}
