package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
)

func updateSet(ctx *cli.Context) error {
	ids := ctx.Args()
	if len(ids) == 0 {
		return cmdCommon.PrintErrWithCmdHelp(
			ctx,
			errors.New("no component ids provided"),
		)
	}
	if ids[0] == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newDaemonClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "update-set", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.UpdateSet(ids)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "update-set", "client-update-set", err)
		return nil
	}
	failed := 0
	for _, id := range ids {
		if msg := resp.Results[id]; msg != "" {
			fmt.Printf("%s: %s\n", id, msg)
			failed++
		}
	}
	fmt.Printf("Update triggered for %d of %d components\n", len(ids)-failed, len(ids))
	return nil
}
