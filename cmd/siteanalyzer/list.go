package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/siteanalyzer/internal/config"
	"github.com/nao1215/siteanalyzer/internal/report"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved crawl artifacts",
		Long: `List shows the markdown documents, raw HTML captures and link indexes in
the artifact directory with their size and modification time.

Examples:
  # List artifacts in the default directory
  siteanalyzer list

  # List artifacts in another directory as JSON
  siteanalyzer list -o ./out --json`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	cmd.Flags().StringP("output", "o", "", "Artifact directory (default: $XDG_DATA_HOME/siteanalyzer/output)")
	cmd.Flags().BoolP("json", "j", false, "Print the listing as JSON")

	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = config.NewConfig().OutputDir
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	files, err := report.List(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if files == nil {
			files = []report.FileInfo{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(files)
	}

	if len(files) == 0 {
		fmt.Fprintf(out, "No artifacts in %s\n", dir)
		return nil
	}
	return printFiles(out, files)
}

func printFiles(w io.Writer, files []report.FileInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tSIZE\tMODIFIED\tFILE")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Type, formatSize(f.Size), f.ModTime.Format("2006-01-02 15:04:05"), f.Path)
	}
	return tw.Flush()
}

// formatSize renders n bytes with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
