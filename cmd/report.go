// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkobayashi-dev/github-wrapped/internal/gateway"
	"github.com/mkobayashi-dev/github-wrapped/internal/renderer"
	"github.com/mkobayashi-dev/github-wrapped/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarizes a user's recent GitHub activity",
	Long: `Fetches a user's public GitHub events, filters them to the requested
time window, and renders a summary dashboard. Pass --json to emit the raw
report instead of the dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		username, _ := cmd.Flags().GetString("username")
		days, _ := cmd.Flags().GetInt("days")
		asJSON, _ := cmd.Flags().GetBool("json")
		if days <= 0 {
			fmt.Fprintln(os.Stderr, "Error: --days must be a positive integer.")
			os.Exit(1)
		}
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger)

		report, err := aggregator.Run(ctx, usecase.ReportRequest{Username: username, Days: days})
		if err != nil {
			fmt.Fprintln(os.Stderr, fatalMessage(err))
			os.Exit(1)
		}

		if asJSON {
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
			return
		}
		renderer.Render(report)
	},
}

// fatalMessage gives each error class its own user-facing message.
func fatalMessage(err error) string {
	var rateLimited *gateway.RateLimitedError
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return "Error: user not found."
	case errors.Is(err, gateway.ErrUnauthorized):
		return "Error: authentication failed. Check your GITHUB_TOKEN."
	case errors.As(err, &rateLimited):
		return fmt.Sprintf("Error: %v. Try again later.", rateLimited)
	default:
		return fmt.Sprintf("Failed to build activity report: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("username", "u", "", "Target GitHub user name (required)")
	reportCmd.Flags().IntP("days", "d", 0, "Time window in days (required, positive)")
	reportCmd.Flags().Bool("json", false, "Output the raw report as JSON instead of the dashboard")
	reportCmd.MarkFlagRequired("username")
	reportCmd.MarkFlagRequired("days")
}
