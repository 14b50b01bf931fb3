package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newDaemonClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.List()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "list", "client-list", err)
		return nil
	}
	if len(resp.Components) == 0 {
		fmt.Println("No components registered.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tSTATE")
	for _, c := range resp.Components {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			c.ComponentId, c.Name, orDash(c.Version), c.State)
	}
	return w.Flush()
}
