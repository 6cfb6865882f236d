package main

import (
	"os"

	"veildb/cmd/veildb/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
