package main

import (
	"github.com/fredbi/profviz/internal/cmd"
)

func main() {
	cli := cmd.NewCommand()

	// parse command line; exit if invalid
	if err := cli.Parse(); err != nil {
		cli.Fatalf(err)

		return
	}

	if err := cli.Execute(); err != nil {
		// map typed errors to exit codes, e.g. usage or unrecognized files
		cli.Exit(err)
	}
}
