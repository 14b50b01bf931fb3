package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	cmdCommon "github.com/cruxd/cruxd/cmd/common"
	"github.com/cruxd/cruxd/common"
)

var (
	regName        string
	regPKHash      string
	regVersion     string
	regFingerprint string
	regInstallDir  string
)

var registerFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "name, n",
		Usage:       "human readable component name",
		Destination: &regName,
	},
	cli.StringFlag{
		Name:        "pk-hash, k",
		Usage:       "sha256 of the component public key, hex encoded",
		Destination: &regPKHash,
	},
	cli.StringFlag{
		Name:        "version, V",
		Usage:       "currently installed version, 0.0.0.0 if none",
		Destination: &regVersion,
	},
	cli.StringFlag{
		Name:        "fingerprint, f",
		Usage:       "fingerprint of the installed payload",
		Destination: &regFingerprint,
	},
	cli.StringFlag{
		Name:        "dir, d",
		Usage:       "directory the component is installed into",
		Destination: &regInstallDir,
	},
}

func register(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if regName == "" || regPKHash == "" || regInstallDir == "" {
		return cmdCommon.PrintErrWithCmdHelp(
			ctx,
			errors.New("name, pk-hash and dir are required"),
		)
	}
	client, err := newDaemonClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "register", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Register(&common.RegisterParams{
		Name:        regName,
		PKHashHex:   regPKHash,
		Version:     regVersion,
		Fingerprint: regFingerprint,
		InstallDir:  regInstallDir,
	})
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "register", "client-register", err)
		return nil
	}
	if resp.Replaced {
		fmt.Printf("Replaced registration of %s (%s)\n", regName, resp.ComponentId)
	} else {
		fmt.Printf("Registered %s as %s\n", regName, resp.ComponentId)
	}
	return nil
}
