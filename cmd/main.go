package main

import (
	"os"

	"github.com/seb-h2o/automlbenchmark/cmd/commands"
)

func main() {
	root := commands.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
