package common

import (
	"errors"
	"flag"
	"testing"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "cruxd"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

func TestInitStateBar(t *testing.T) {
	p := mpb.New()
	bar := InitStateBar(p, "aabb", 4)
	if bar == nil {
		t.Fatal("expected a bar")
	}
	bar.SetCurrent(4)
	p.Wait()
}

func TestPrintRuntimeErr(t *testing.T) {
	PrintRuntimeErr(nil, "cmd", "action", nil)
	PrintRuntimeErr(newTestContext(), "cmd", "action", errors.New("boom"))
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("boom")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected app help to be shown")
	}
}

func TestPrintErrWithHelpNilError(t *testing.T) {
	ctx := newTestContext()
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		t.Fatal("help should not be shown for nil error")
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		called = true
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := PrintErrWithCmdHelp(ctx, errors.New("boom")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected command help to be shown")
	}
}

func TestUsageErrorCallbackUnknownFlag(t *testing.T) {
	ctx := newTestContext()
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error { return nil }
	defer func() { showCommandHelp = orig }()

	err := UsageErrorCallback(ctx, errors.New("flag provided but not defined: -bogus"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
