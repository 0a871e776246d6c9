package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/siteanalyzer/internal/log"
	"github.com/nao1215/siteanalyzer/internal/model"
)

// Runner runs one crawl session. *Session implements it.
type Runner interface {
	Run(ctx context.Context, target model.CrawlTarget, options model.FetchOptions) model.CrawlResult
}

// ResultHook is called after every URL of a batch with its index.
type ResultHook func(i int, result model.CrawlResult)

// OverrideFunc adjusts the target and options of one batch URL.
type OverrideFunc func(rawURL string, target *model.CrawlTarget, options *model.FetchOptions)

// Batch crawls a list of URLs one after another and collects one result
// per URL in input order. A failed URL never stops the batch.
type Batch struct {
	runner   Runner
	logger   *slog.Logger
	sleep    SleepFunc
	hook     ResultHook
	override OverrideFunc
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchLogger sets the logger. Without it the batch logs nothing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// WithBatchSleeper replaces the delay between sessions.
func WithBatchSleeper(sleep SleepFunc) BatchOption {
	return func(b *Batch) {
		if sleep != nil {
			b.sleep = sleep
		}
	}
}

// WithResultHook registers a function called after every session.
func WithResultHook(hook ResultHook) BatchOption {
	return func(b *Batch) {
		b.hook = hook
	}
}

// WithOverrides registers per-URL adjustments applied to copies of the
// template target and options.
func WithOverrides(override OverrideFunc) BatchOption {
	return func(b *Batch) {
		b.override = override
	}
}

// NewBatch creates a Batch that runs each URL with runner.
func NewBatch(runner Runner, opts ...BatchOption) *Batch {
	b := &Batch{
		runner: runner,
		sleep:  Sleep,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = log.Discard()
	}

	return b
}

// RunBatch crawls urls in order. Each URL is crawled with a copy of
// template whose RootURL is the URL. options.CrawlDelay is slept after
// every session except the last.
//
// The result always holds exactly one entry per URL. When ctx is done the
// URLs not yet crawled are recorded as cancelled failures.
func (b *Batch) RunBatch(ctx context.Context, urls []string, template model.CrawlTarget, options model.FetchOptions) model.BatchResult {
	b.logger.Info("starting batch crawl",
		"total_urls", len(urls),
		"crawl_delay", options.CrawlDelay,
	)
	startTime := time.Now()

	results := make([]model.CrawlResult, 0, len(urls))

	for i, rawURL := range urls {
		rawURL = strings.TrimSpace(rawURL)

		var result model.CrawlResult
		if err := ctx.Err(); err != nil {
			result = model.NewFailureResult(rawURL, fmt.Errorf("crawl cancelled: %w", err))
		} else {
			b.logger.Info("crawling url", "url", rawURL, "index", i+1, "total", len(urls))

			target := template
			target.RootURL = rawURL
			opts := options
			if b.override != nil {
				b.override(rawURL, &target, &opts)
			}
			result = b.runner.Run(ctx, target, opts)
		}

		if !result.Success {
			b.logger.Warn("crawl failed", "url", rawURL, "error", result.Error)
		}

		results = append(results, result)
		if b.hook != nil {
			b.hook(i, result)
		}

		if i < len(urls)-1 && ctx.Err() == nil {
			// A cancelled sleep is picked up by the next iteration.
			_ = b.sleep(ctx, options.CrawlDelay) //nolint:errcheck // see above
		}
	}

	batch := model.BatchResult{Results: results}
	b.logger.Info("batch crawl completed",
		"total", batch.Len(),
		"succeeded", batch.Succeeded(),
		"failed", batch.Failed(),
		"duration", time.Since(startTime),
	)

	return batch
}
