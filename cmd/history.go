package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
)

var historyLimit int

var historyFlags = []cli.Flag{
	cli.IntFlag{
		Name:        "limit, l",
		Usage:       "maximum number of outcomes to show",
		Destination: &historyLimit,
	},
}

func history(ctx *cli.Context) error {
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
		cmdCommon.PrintRuntimeErr(ctx, "history", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.History(id, historyLimit)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "history", "client-history", err)
		return nil
	}
	if len(resp.Outcomes) == 0 {
		fmt.Println("No recorded outcomes.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATE\tRESULT\tREPORTED")
	for _, o := range resp.Outcomes {
		result := "ok"
		if !o.Success {
			result = fmt.Sprintf("%s (code %d)", o.ErrorCategory, o.ErrorCode)
		}
		reported := "no"
		if o.Reported {
			reported = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			o.CreatedAt.Format("2006-01-02 15:04:05"), o.State, result, reported)
	}
	return w.Flush()
}
