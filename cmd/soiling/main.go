package main

import (
	"os"

	"github.com/nicoleits/TESIS-SOILING/cmd/soiling/commands"
)

// main is the entry point for the soiling CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
