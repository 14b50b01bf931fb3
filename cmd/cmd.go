package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/cruxd/cruxd/cmd/common"
)

// BuildArgs carries build-time metadata injected by the linker.
type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

// Execute runs the CLI with the given arguments.
func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	common.VersionCmdStr = fmt.Sprintf(
		"cruxd %s-%s (%s_%s)\nBuild: %s=%s",
		bArgs.Version, bArgs.BuildType,
		runtime.GOOS, runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	app := cli.App{
		Name:                  "cruxd",
		HelpName:              "cruxd",
		Usage:                 "A component update daemon.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "cruxd <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "daemon",
				Usage:              "run the update daemon in the foreground",
				Action:             daemon,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DaemonDescription,
				Flags:              daemonFlags,
			},
			{
				Name:                   "register",
				Aliases:                []string{"r"},
				Usage:                  "register a component with the daemon",
				Action:                 register,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            RegisterDescription,
				UseShortOptionHandling: true,
				Flags:                  registerFlags,
			},
			{
				Name:                   "check",
				Usage:                  "trigger an update check",
				Action:                 check,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            CheckDescription,
				UseShortOptionHandling: true,
				Flags:                  checkFlags,
			},
			{
				Name:               "status",
				Aliases:            []string{"s"},
				Usage:              "show the update state of a component",
				Action:             status,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StatusDescription,
			},
			{
				Name:               "list",
				Aliases:            []string{"l"},
				Usage:              "list registered components",
				Action:             list,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ListDescription,
			},
			{
				Name:               "update-set",
				Aliases:            []string{"u"},
				Usage:              "update a set of components now",
				Action:             updateSet,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        UpdateSetDescription,
			},
			{
				Name:                   "history",
				Usage:                  "show recorded update outcomes",
				Action:                 history,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            HistoryDescription,
				UseShortOptionHandling: true,
				Flags:                  historyFlags,
			},
			{
				Name:               "watch",
				Aliases:            []string{"w"},
				Usage:              "watch live update events",
				Action:             watch,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        WatchDescription,
			},
			{
				Name:               "stop",
				Usage:              "stop scheduling update checks",
				Action:             stop,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StopDescription,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints the installed version of cruxd",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:          common.Help,
		HideHelp:        true,
		HideVersion:     true,
		CommandNotFound: commandNotFound,
	}
	return app.Run(args)
}

func commandNotFound(ctx *cli.Context, s string) {
	fmt.Printf("%s: unknown command %q\nRun '%s help' for usage.\n",
		ctx.App.HelpName, s, ctx.App.HelpName)
}
