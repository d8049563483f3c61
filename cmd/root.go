// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-wrapped",
	Short: "A CLI tool to summarize a GitHub user's recent activity.",
	Long: `github-wrapped is a CLI tool that fetches a user's public GitHub events,
filters them to a requested time window, and renders an activity summary
(commits, PRs opened/merged, issues, top repositories, language breakdown,
busiest day) as a terminal dashboard.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
