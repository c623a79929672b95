package main

import (
	"os"

	"eventline/internal/cli"
	appLog "eventline/internal/log"
)

var version = "0.1.0-dev"

func main() {
	if err := cli.Run(version); err != nil {
		appLog.Error("eventline failed", err)
		os.Exit(1)
	}
}
