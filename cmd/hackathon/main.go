package main

import (
	"fmt"
	"os"

	"github.com/dyluth/hackathon/cmd/hackathon/commands"
	"github.com/dyluth/hackathon/internal/printer"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Most errors are printed directly by the printer package with color formatting
	if err := commands.Execute(); err != nil {
		if !printer.IsDisplayed(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
