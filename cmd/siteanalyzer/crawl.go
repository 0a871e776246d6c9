package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/siteanalyzer/internal/config"
	"github.com/nao1215/siteanalyzer/internal/model"
)

// errCrawlFailed is returned when at least one crawl did not succeed.
var errCrawlFailed = errors.New("crawl failed")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a website into a markdown document",
		Long: `Crawl fetches a root URL and writes a markdown document containing the
page title, metadata, links and content. With --follow-links the crawl
continues breadth first through discovered links, bounded by --max-pages
and --depth.

Artifacts:
  {output}/{site}_{timestamp}.md          markdown document
  {output}/html/{site}_{timestamp}.html   raw HTML of the root page (--save-html)
  {output}/{site}_{timestamp}_links.json  link index (--save-links)

Examples:
  # Crawl a single page
  siteanalyzer crawl https://example.com

  # Crawl up to 20 pages, two links deep
  siteanalyzer crawl --follow-links --max-pages 20 --depth 2 https://docs.example.com

  # Render JavaScript with headless Chrome
  siteanalyzer crawl --renderer browser https://app.example.com

  # Crawl an onion service through an existing Tor proxy
  siteanalyzer crawl --external-tor 127.0.0.1:9150 http://example.onion`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	addCrawlFlags(cmd, config.DefaultCrawlDelay)

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer a.close() //nolint:errcheck // nothing left to report

	return a.crawl(ctx, args[0])
}

func (a *app) crawl(ctx context.Context, rawURL string) error {
	target, options := a.target(rawURL)

	fmt.Fprintf(a.out, "Crawling %s...\n", rawURL)
	result := a.session.Run(ctx, target, options)
	a.record(ctx, result)

	if !result.Success {
		return fmt.Errorf("%w: %s", errCrawlFailed, result.Error)
	}
	printResult(a.out, result)
	return nil
}

// printResult writes the artifact paths and counts of a successful crawl.
func printResult(w io.Writer, result model.CrawlResult) {
	fmt.Fprintf(w, "Saved: %s\n", result.PrimaryPath)
	if result.RawPath != "" {
		fmt.Fprintf(w, "HTML: %s\n", result.RawPath)
	}
	if result.LinksPath != "" {
		fmt.Fprintf(w, "Links: %s\n", result.LinksPath)
	}
	fmt.Fprintf(w, "Title: %s\n", result.Title)
	fmt.Fprintf(w, "Pages crawled: %d\n", result.PagesCrawled)
	fmt.Fprintf(w, "Content length: %d characters\n", result.ContentLength)
	if len(result.Links) > 0 {
		fmt.Fprintf(w, "Links found: %d internal, %d external\n", result.InternalLinkCount, result.ExternalLinkCount)
	}
}
