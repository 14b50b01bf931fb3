package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
)

var checkAllComponents bool

var checkFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "all, a",
		Usage:       "check every registered component",
		Destination: &checkAllComponents,
	},
}

func check(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if id == "" && !checkAllComponents {
		return cmdCommon.PrintErrWithCmdHelp(
			ctx,
			errors.New("no component id provided"),
		)
	}
	client, err := newDaemonClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "check", "new_client", err)
		return nil
	}
	defer client.Close()
	if checkAllComponents {
		resp, err := client.CheckAll()
		if err != nil {
			cmdCommon.PrintRuntimeErr(ctx, "check", "client-check-all", err)
			return nil
		}
		fmt.Printf("Check triggered for %d components\n", resp.Triggered)
		return nil
	}
	resp, err := client.CheckNow(id)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "check", "client-check", err)
		return nil
	}
	fmt.Printf("Check requested for %s (state: %s)\n", resp.ComponentId, resp.State)
	return nil
}
