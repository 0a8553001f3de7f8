// Package cli provides the command-line interface for chanstats.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustycloud/chanstats/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chanstats",
		Short: "Aggregate statistics from IRC channel logs",
		Long: `chanstats turns a directory of daily chat-log files into per-nick
and per-channel statistics.

It handles:
  - ZNC and EnergyMech log dialects
  - Bridge-relayed messages (the embedded sender replaces the relay account)
  - Nick aliases and bot/service exclusion
  - Incremental per-day caching: unchanged files are never re-parsed`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewCacheCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
