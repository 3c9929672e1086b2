package cmd

import (
	"os"

	"github.com/nfrund/fogwar/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// fs and cfg are package level so tests can swap them.
var (
	fs  afero.Fs = afero.NewOsFs()
	cfg config.Provider
)

var rootCmd = &cobra.Command{
	Use:   "fogwar-cli",
	Short: "Operator tool for the fogwar game server",
	Long: `fogwar-cli inspects and maintains the files the game server works from.

Available commands:
  catalog    List or validate the unit stat catalog
  state      Show or reset the persisted game
  roster     List the configured users in turn order
  topics     List the game event topics

Settings are read from the same environment (and .env file) as the server.
Use "fogwar-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfg == nil {
			cfg = config.New()
		}
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
