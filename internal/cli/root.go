// Package cli implements the wordfall CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wordfall",
	Short: "Release and support tooling for the Wordfall game",
	Long: `Wordfall manages the release manifest, update decisions, rating-prompt
tuning, and word list that back the Wordfall game clients.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(wordsCmd)
}
