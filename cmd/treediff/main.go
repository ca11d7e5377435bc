package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/treediff/treediff/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "treediff",
		Short: "Content-based recursive directory comparison",
		Long: `treediff recursively compares two directory trees and classifies every
file in the first tree as changed, new or unchanged relative to the second,
using content hashing rather than timestamps. Exclusion patterns are regular
expressions matched against full paths.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewCompareCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
