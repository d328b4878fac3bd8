// Package main provides the tally CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}
	rootCmd := &cobra.Command{
		Use:   "tally",
		Short: "Score calculator, grade book and rental desk",
		Long: `Tally computes an aesthetic score from five body measurements, keeps a
school grade book with bimonthly grades and approval status, and runs a
small car rental desk.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to config file (default: .tally/config.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().StringVar(&g.namespace, "namespace", "default", "Storage namespace for grade books, desks and saved scores")

	rootCmd.AddCommand(
		newScoreCmd(g),
		newScoresCmd(g),
		newExplainCmd(g),
		newTiersCmd(g),
		newGradebookCmd(g),
		newRentalCmd(g),
		newTokenCmd(g),
		newHashKeyCmd(),
		newServeCmd(g),
	)
	return rootCmd
}
