package cmd

import (
	"testing"
)

func testBuildArgs() BuildArgs {
	return BuildArgs{Version: "v0.0.1", BuildType: "test", Date: "today", Commit: "abcdef0"}
}

func TestExecuteVersion(t *testing.T) {
	if err := Execute([]string{"cruxd", "version"}, testBuildArgs()); err != nil {
		t.Fatalf("version: %v", err)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	if err := Execute([]string{"cruxd", "frobnicate"}, testBuildArgs()); err != nil {
		t.Fatalf("unknown command: %v", err)
	}
}
