package main

import (
	"os"

	"github.com/taskdeck/taskdeck-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
