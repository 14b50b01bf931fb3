package main

import (
	"fmt"
	"os"

	"github.com/cruxd/cruxd/cmd"
)

// Populated by the linker at release time.
var (
	version   = "v0.1.0"
	buildType = "dev"
	commit    = "unknown"
	date      = "unknown"
)

func main() {
	err := cmd.Execute(os.Args, cmd.BuildArgs{
		Version:   version,
		BuildType: buildType,
		Commit:    commit,
		Date:      date,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
