package main

import (
	"github.com/spf13/cobra"
)

var quiet bool

var rootCmd = &cobra.Command{
	Use:   "munchgen",
	Short: "munchgen - longest-match scanner generator",
	Long: `Munchgen compiles tables of byte-sequence => expression pairs into Go
source for a deterministic longest-match (maximal munch) scanner.

Typical use is a go:generate step: feed it key=value pairs or an entry
file, pick a strategy and input model, and commit the emitted function.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
