package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
	"github.com/cruxd/cruxd/common"
)

func status(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return cmdCommon.PrintErrWithCmdHelp(
			ctx,
			errors.New("no component id provided"),
		)
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newDaemonClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "status", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Status(id)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "status", "client-status", err)
		return nil
	}
	printComponent(&resp.Component)
	return nil
}

func printComponent(c *common.ComponentInfo) {
	fmt.Printf(`
Component Info
Id`+"\t\t"+`: %s
Name`+"\t\t"+`: %s
Version`+"\t\t"+`: %s
State`+"\t\t"+`: %s
`,
		c.ComponentId,
		c.Name,
		orDash(c.Version),
		c.State,
	)
	if c.NextVersion != "" {
		fmt.Printf("Next Version\t: %s\n", c.NextVersion)
	}
	if c.Fingerprint != "" {
		fmt.Printf("Fingerprint\t: %s\n", c.Fingerprint)
	}
	if !c.LastCheck.IsZero() {
		fmt.Printf("Last Check\t: %s\n", c.LastCheck.Format("2006-01-02 15:04:05"))
	}
	if c.DiffUpdateFailed {
		fmt.Printf("Diff Updates\t: disabled after failure\n")
	}
	if c.ErrorCategory != "" {
		fmt.Printf("Last Error\t: %s (code %d)\n", c.ErrorCategory, c.ErrorCode)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
