package crawler

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/siteanalyzer/internal/extract"
	"github.com/nao1215/siteanalyzer/internal/fetcher"
	"github.com/nao1215/siteanalyzer/internal/frontier"
	"github.com/nao1215/siteanalyzer/internal/log"
	"github.com/nao1215/siteanalyzer/internal/model"
	"github.com/nao1215/siteanalyzer/internal/report"
)

// contentSeparator joins the markdown of consecutive pages.
const contentSeparator = "\n\n"

// ArtifactWriter persists the artifacts of one crawl.
type ArtifactWriter interface {
	Write(doc *report.Document) (report.Paths, error)
}

// LinkFilter decides whether a discovered URL may be queued.
// fetcher.RobotsPolicy implements it.
type LinkFilter interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Session crawls one root URL at a time: it fetches pages in breadth-first
// order, extracts the root page signals and hands the result to the
// artifact writer.
//
// A Session can run many targets one after another. Run is not safe for
// concurrent use.
type Session struct {
	fetcher fetcher.PageFetcher
	writer  ArtifactWriter
	logger  *slog.Logger

	// now stamps the artifacts of a run.
	now func() time.Time

	// sleep implements the crawl delay.
	sleep SleepFunc

	// filter, when set, screens discovered links before they are queued.
	filter LinkFilter

	// userAgent is the default picked from agents at construction.
	userAgent string
	agents    []string
	rand      *rand.Rand
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger. Without it the session logs nothing.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock sets the clock used for artifact timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSleeper replaces the crawl delay implementation.
func WithSleeper(sleep SleepFunc) SessionOption {
	return func(s *Session) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithUserAgents sets the pool the default user agent is picked from.
func WithUserAgents(agents []string) SessionOption {
	return func(s *Session) {
		s.agents = agents
	}
}

// WithRand sets the random source used to pick the default user agent.
func WithRand(r *rand.Rand) SessionOption {
	return func(s *Session) {
		s.rand = r
	}
}

// WithLinkFilter screens discovered links, typically with robots.txt.
func WithLinkFilter(filter LinkFilter) SessionOption {
	return func(s *Session) {
		s.filter = filter
	}
}

// NewSession creates a Session that fetches with f and writes with w.
// The default user agent is picked once here.
func NewSession(f fetcher.PageFetcher, w ArtifactWriter, opts ...SessionOption) *Session {
	s := &Session{
		fetcher: f,
		writer:  w,
		now:     time.Now,
		sleep:   Sleep,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.userAgent = fetcher.PickUserAgent(s.rand, s.agents)

	return s
}

// UserAgent returns the session default user agent.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// Run crawls target and writes its artifacts. It never returns an error:
// every failure is reported through the result.
//
// Validation happens before any fetch or sleep. Metadata and links come
// from the root page only; content is the markdown of every fetched page
// in visitation order.
func (s *Session) Run(ctx context.Context, target model.CrawlTarget, options model.FetchOptions) model.CrawlResult {
	rootURL := strings.TrimSpace(target.RootURL)

	if err := target.Validate(); err != nil {
		return s.fail(rootURL, configError(err))
	}
	if err := options.Validate(); err != nil {
		return s.fail(rootURL, configError(err))
	}
	front, err := frontier.New(target)
	if err != nil {
		return s.fail(rootURL, configError(err))
	}

	startedAt := s.now()
	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = s.userAgent
	}
	fetchOpts := fetcher.Options{
		UserAgent: userAgent,
		Headers:   options.Headers,
		Cookie:    options.Cookie,
	}
	multipage := target.Multipage()

	logger := s.logger.With("crawl_id", uuid.NewString(), "url", rootURL)
	logger.Info("starting crawl",
		"max_pages", target.MaxPages,
		"max_depth", target.MaxDepth,
		"follow_links", target.FollowLinks,
	)

	var (
		root     *fetcher.Page
		metadata model.PageMetadata
		links    []model.ExtractedLink
		contents []string
	)

	for batch := front.NextBatch(); batch != nil; batch = front.NextBatch() {
		for _, entry := range batch {
			if err := s.sleep(ctx, options.CrawlDelay); err != nil {
				return s.fail(rootURL, &FetchError{URL: entry.URL, Err: err})
			}

			page, err := s.fetcher.Fetch(ctx, entry.URL, fetchOpts)
			if err != nil {
				logger.Warn("fetch failed", "page", entry.URL, "depth", entry.Depth, "error", err)
				return s.fail(rootURL, &FetchError{URL: entry.URL, Err: err})
			}
			if page == nil {
				logger.Warn("fetch returned no page", "page", entry.URL, "depth", entry.Depth)
				return s.fail(rootURL, &FetchError{URL: entry.URL, Err: fetcher.ErrEmptyPage})
			}
			logger.Debug("fetched page",
				"page", entry.URL,
				"depth", entry.Depth,
				"status", page.StatusCode,
				"bytes", len(page.HTML),
			)

			if page.URL != "" && page.URL != entry.URL {
				front.MarkRedirect(page.URL)
			}
			contents = append(contents, page.Markdown)

			isRoot := root == nil
			if isRoot {
				root = page
			}
			if !isRoot && !multipage {
				continue
			}

			needLinks := multipage || (isRoot && options.ExtractLinks)
			needMeta := isRoot && options.ExtractMetadata
			if !needLinks && !needMeta {
				continue
			}

			doc := extract.Parse(page.HTML)
			var found []model.ExtractedLink
			if needLinks {
				found = doc.Links(entry.URL)
			}
			if isRoot {
				if needMeta {
					metadata = doc.Metadata()
				}
				if options.ExtractLinks {
					links = found
				}
			}

			if multipage {
				queued := front.EnqueueDiscovered(s.screen(ctx, found), entry.Depth)
				logger.Debug("queued links", "page", entry.URL, "found", len(found), "queued", queued)
			}
		}
	}

	content := strings.Join(contents, contentSeparator)
	title := extract.Title(root.Markdown)

	doc := &report.Document{
		Stem:           report.Stem(rootURL, startedAt),
		URL:            rootURL,
		Title:          title,
		CrawledAt:      startedAt,
		Metadata:       metadata,
		Links:          links,
		Content:        content,
		RawHTML:        root.HTML,
		SaveRawCapture: options.SaveRawCapture,
		SaveLinks:      options.ExtractLinks,
	}

	paths, err := s.writer.Write(doc)
	if err != nil {
		ioErr := &IOError{Err: err}
		var writeErr *report.WriteError
		if errors.As(err, &writeErr) {
			ioErr.Path = writeErr.Path
		}
		logger.Error("failed to write artifacts", "error", err)
		return s.fail(rootURL, ioErr)
	}

	result := model.NewSuccessResult(model.SuccessFields{
		URL:          rootURL,
		PrimaryPath:  paths.Primary,
		RawPath:      paths.Raw,
		LinksPath:    paths.Links,
		Title:        title,
		Content:      content,
		Metadata:     metadata,
		Links:        links,
		PagesCrawled: len(contents),
		CrawledAt:    startedAt,
	})

	logger.Info("crawl completed",
		"pages", result.PagesCrawled,
		"content_length", result.ContentLength,
		"file", result.PrimaryPath,
	)

	return result
}

// screen drops the links the filter rejects. External links are kept as
// they are never queued anyway.
func (s *Session) screen(ctx context.Context, links []model.ExtractedLink) []model.ExtractedLink {
	if s.filter == nil {
		return links
	}
	kept := links[:0:0]
	for _, l := range links {
		if l.IsInternal && !s.filter.Allowed(ctx, l.URL) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

func (s *Session) fail(rootURL string, err error) model.CrawlResult {
	if errors.Is(err, ErrConfiguration) {
		s.logger.Warn("invalid crawl configuration", "url", rootURL, "error", err)
	}
	return model.NewFailureResult(rootURL, err)
}

// Sleep waits for d unless ctx is done first, in which case it returns
// the context error. A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
