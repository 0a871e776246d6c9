package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/siteanalyzer/internal/config"
)

//go:embed templates/siteanalyzer.yaml
var configTemplate embed.FS

const templatePath = "templates/siteanalyzer.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a siteanalyzer configuration file",
		Long: `Init writes a commented .siteanalyzer.yaml into the current directory.

The generated file documents the crawl defaults and shows examples of
per-site overrides such as page limits, cookies and headers.

Examples:
  # Create .siteanalyzer.yaml in the current directory
  siteanalyzer init

  # Create the config file at a specific path
  siteanalyzer init -o ~/.config/siteanalyzer/config.yaml

  # Overwrite an existing file
  siteanalyzer init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure per-site settings such as:")
	fmt.Fprintln(out, "  - Page and depth limits")
	fmt.Fprintln(out, "  - Cookies and headers for authenticated pages")
	fmt.Fprintln(out, "  - Crawl delay and user agent")

	return nil
}
