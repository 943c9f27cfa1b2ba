package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hackathon",
		Short: "Hackathon - concurrent idea and package pipeline",
		Long: `Hackathon runs a producer/consumer pipeline: idea producers and package
producers feed a shared event bus, and students build each idea from the
packages it requires.

Every produced and consumed name is folded into order-independent checksums,
so a run proves that each idea and package was consumed exactly once.`,
		Version: version,
		// Prevent silent success when unknown flags are passed to root command
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
	}

	cmd.AddCommand(newRunCmd(), newInitCmd(), newRunsCmd())
	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
