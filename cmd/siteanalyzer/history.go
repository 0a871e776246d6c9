package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/siteanalyzer/internal/config"
	"github.com/nao1215/siteanalyzer/internal/database"
)

// defaultHistoryLimit is the number of entries shown without --limit.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [host]",
		Short: "Show recorded crawls",
		Long: `History lists recorded crawl results, newest first. Give a host to see
only the crawls of that site.

Examples:
  # Show the latest crawls
  siteanalyzer history

  # Show crawls of one host
  siteanalyzer history docs.example.com

  # List every crawled host
  siteanalyzer history --hosts

  # Print a stored result as JSON
  siteanalyzer history --show 6f1c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", "", "History database directory (default: $XDG_DATA_HOME/siteanalyzer)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of entries, 0 for all")
	cmd.Flags().Bool("hosts", false, "List crawled hosts")
	cmd.Flags().String("show", "", "Print the stored result with this id as JSON")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	hostsOnly, err := flags.GetBool("hosts")
	if err != nil {
		return err
	}
	showID, err := flags.GetString("show")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case showID != "":
		result, err := db.GetResult(ctx, showID)
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("no crawl with id %s", showID)
		}
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)

	case hostsOnly:
		hosts, err := db.Hosts(ctx)
		if err != nil {
			return err
		}
		for _, h := range hosts {
			fmt.Fprintln(out, h)
		}
		return nil
	}

	var host string
	if len(args) == 1 {
		host = args[0]
	}
	entries, err := db.History(ctx, host, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No crawl history.")
		return nil
	}
	return printHistory(out, entries)
}

func printHistory(w io.Writer, entries []database.HistoryEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSTATUS\tPAGES\tURL\tDETAIL")
	for _, e := range entries {
		status, detail := "ok", e.FilePath
		if !e.Success {
			status, detail = "failed", e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), status, e.PagesCrawled, e.URL, detail)
	}
	return tw.Flush()
}
