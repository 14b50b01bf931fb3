package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
)

func stop(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newDaemonClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "stop", "new_client", err)
		return nil
	}
	defer client.Close()
	if err := client.StopScheduling(); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "stop", "client-stop", err)
		return nil
	}
	fmt.Println("Update scheduling stopped.")
	return nil
}
