package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nao1215/siteanalyzer/internal/config"
	"github.com/nao1215/siteanalyzer/internal/crawler"
	"github.com/nao1215/siteanalyzer/internal/model"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [url...]",
		Short: "Crawl several websites one after another",
		Long: `Batch crawls each URL in turn with the same settings and pauses
--crawl-delay between sites. A failing site does not stop the batch.
Results are reported in input order.

Examples:
  # Crawl three sites
  siteanalyzer batch https://a.example https://b.example https://c.example

  # Read URLs from a file, one per line (# starts a comment)
  siteanalyzer batch --list urls.txt

  # Skip sites crawled successfully in the last day
  siteanalyzer batch --list urls.txt --skip-recent 24h`,
		Args: cobra.ArbitraryArgs,
		RunE: runBatchCmd,
	}

	addCrawlFlags(cmd, config.DefaultBatchDelay)

	cmd.Flags().StringP("list", "l", "", "File with one URL per line")
	cmd.Flags().Duration("skip-recent", 0, "Skip URLs crawled successfully within this duration")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")
	cmd.Flags().BoolP("json", "j", false, "Print the batch result as JSON")

	return cmd
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	urls := append([]string(nil), args...)

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return err
	}
	if listPath != "" {
		fromFile, err := readURLList(listPath)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}

	cfg, err := buildConfig(cmd, urls)
	if err != nil {
		return err
	}
	cfg.BatchDelay = cfg.CrawlDelay

	skipRecent, err := cmd.Flags().GetDuration("skip-recent")
	if err != nil {
		return err
	}
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
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

	return a.batch(ctx, batchRun{
		urls:       urls,
		skipRecent: skipRecent,
		progress:   !noProgress && !asJSON,
		json:       asJSON,
	})
}

type batchRun struct {
	urls       []string
	skipRecent time.Duration
	progress   bool
	json       bool
}

func (a *app) batch(ctx context.Context, run batchRun) error {
	urls := a.skipRecent(ctx, run.urls, run.skipRecent)
	if len(urls) == 0 {
		fmt.Fprintln(a.out, "Nothing to crawl.")
		return nil
	}

	var bar *progressbar.ProgressBar
	if run.progress {
		bar = progressbar.NewOptions(len(urls),
			progressbar.OptionSetWriter(a.errOut),
			progressbar.OptionSetDescription("crawling"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
	}

	hook := func(_ int, result model.CrawlResult) {
		a.record(ctx, result)
		if bar != nil {
			_ = bar.Add(1) //nolint:errcheck // display only
		}
	}

	batch := crawler.NewBatch(a.session,
		crawler.WithBatchLogger(a.logger.Logger),
		crawler.WithResultHook(hook),
		crawler.WithOverrides(a.cfg.ApplySite),
	)

	template := a.cfg.CrawlTarget("")
	options := a.cfg.FetchOptions()
	options.CrawlDelay = a.cfg.BatchDelay

	start := time.Now()
	result := batch.RunBatch(ctx, urls, template, options)
	if bar != nil {
		_ = bar.Finish() //nolint:errcheck // display only
	}

	if run.json {
		encoder := json.NewEncoder(a.out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		printBatchSummary(a, result, time.Since(start))
	}

	if result.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d sites", errCrawlFailed, result.Failed(), result.Len())
	}
	return nil
}

// skipRecent drops URLs with a successful history entry newer than d.
func (a *app) skipRecent(ctx context.Context, urls []string, d time.Duration) []string {
	if d <= 0 || a.db == nil {
		return urls
	}

	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		recent, err := a.db.HasRecentCrawl(ctx, u, d)
		if err != nil {
			a.logger.Warn("failed to check crawl history", "url", u, "error", err)
		}
		if recent {
			fmt.Fprintf(a.out, "Skipped (crawled within %s): %s\n", d, u)
			continue
		}
		kept = append(kept, u)
	}
	return kept
}

func printBatchSummary(a *app, result model.BatchResult, elapsed time.Duration) {
	total := result.Len()
	for i, r := range result.Results {
		if r.Success {
			fmt.Fprintf(a.out, "[%d/%d] OK   %s -> %s (%d characters)\n",
				i+1, total, r.URL, r.PrimaryPath, r.ContentLength)
			continue
		}
		fmt.Fprintf(a.out, "[%d/%d] FAIL %s: %s\n", i+1, total, r.URL, r.Error)
	}
	fmt.Fprintf(a.out, "\nBatch completed in %s: %d succeeded, %d failed\n",
		elapsed.Round(time.Millisecond), result.Succeeded(), result.Failed())
}

// readURLList reads one URL per line. Blank lines and lines starting with
// # are ignored.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	if len(urls) == 0 {
		return nil, errors.New("URL list is empty")
	}
	return urls, nil
}
