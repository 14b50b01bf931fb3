package cmd

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
	"github.com/cruxd/cruxd/common"
	"github.com/cruxd/cruxd/pkg/cruxcli"
)

// Stage transitions rendered per update cycle: check started, update
// found, payload ready, payload applied.
const watchStages = 4

func watch(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if id == "" {
		id = "*"
	}
	client, err := newDaemonClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "watch", "new_client", err)
		return nil
	}
	defer client.Close()

	p := mpb.New()
	defer p.Shutdown()
	bars := make(map[string]*mpb.Bar)

	h := cruxcli.NewWatchingHandler("", func(wr *common.WatchingResponse) error {
		if wr.ComponentId == "" {
			return nil
		}
		bar, ok := bars[wr.ComponentId]
		if !ok {
			bar = cmdCommon.InitStateBar(p, wr.ComponentId, watchStages)
			bars[wr.ComponentId] = bar
		}
		switch wr.Action {
		case common.CheckStarted:
			bar.SetCurrent(1)
		case common.UpdateFound:
			bar.SetCurrent(2)
		case common.UpdateReady:
			bar.SetCurrent(3)
		case common.UpdateApplied:
			bar.SetCurrent(watchStages)
		case common.UpdateFailed:
			bar.Abort(false)
		}
		return nil
	})

	resp, err := client.Watch(id, h)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "watch", "client-watch", err)
		return nil
	}
	if resp.Action == common.UpdateFailed {
		fmt.Printf("Note: last update of %s failed\n", resp.ComponentId)
	}
	fmt.Println(">> Watching component updates, ctrl-c to exit <<")
	if err := client.Listen(); err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "watch", "client-listen", err)
	}
	return nil
}
