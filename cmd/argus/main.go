package main

import (
	"os"

	"github.com/jwchen/argus/cmd/argus/commands"
)

// main is the entry point for the Argus CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
