package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for siteanalyzer.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siteanalyzer",
		Short: "Crawl websites into markdown documents",
		Long: `siteanalyzer crawls a website from a root URL and writes the result as a
markdown document, with an optional raw HTML capture and a JSON link index.

Pages are fetched with a plain HTTP client by default. Use --renderer browser
to render JavaScript with headless Chrome, and --tor to route traffic through
Tor. Every crawl is recorded in a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .siteanalyzer.yaml in current or home directory)")
	cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file (rotated)")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
