package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nao1215/siteanalyzer/internal/fetcher"
	"github.com/nao1215/siteanalyzer/internal/model"
	"github.com/nao1215/siteanalyzer/internal/report"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// stubFetcher serves canned pages and records every call.
type stubFetcher struct {
	pages  map[string]*fetcher.Page
	errs   map[string]error
	calls  []string
	agents []string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		pages: make(map[string]*fetcher.Page),
		errs:  make(map[string]error),
	}
}

func (f *stubFetcher) add(url, html, markdown string) {
	f.pages[url] = &fetcher.Page{URL: url, StatusCode: 200, HTML: html, Markdown: markdown}
}

func (f *stubFetcher) Fetch(ctx context.Context, url string, opts fetcher.Options) (*fetcher.Page, error) {
	f.calls = append(f.calls, url)
	f.agents = append(f.agents, opts.UserAgent)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, &fetcher.StatusError{URL: url, StatusCode: 404}
	}
	return page, nil
}

// redirect serves url as if the server redirected it to finalURL.
func (f *stubFetcher) redirect(url, finalURL, html, markdown string) {
	f.pages[url] = &fetcher.Page{URL: finalURL, StatusCode: 200, HTML: html, Markdown: markdown}
}

// nilFetcher returns neither a page nor an error.
type nilFetcher struct{}

func (nilFetcher) Fetch(context.Context, string, fetcher.Options) (*fetcher.Page, error) {
	return nil, nil
}

// stubWriter records documents instead of writing them.
type stubWriter struct {
	docs []*report.Document
	err  error
}

func (w *stubWriter) Write(doc *report.Document) (report.Paths, error) {
	w.docs = append(w.docs, doc)
	if w.err != nil {
		return report.Paths{}, w.err
	}
	return report.Paths{Primary: "/out/" + report.PrimaryName(doc.Stem)}, nil
}

// sleepRecorder records requested delays without sleeping.
type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

type denyFilter struct {
	denied string
}

func (f denyFilter) Allowed(_ context.Context, rawURL string) bool {
	return !strings.HasSuffix(rawURL, f.denied)
}

const rootHTML = `<html><head>
<title>Root Page</title>
<meta name="description" content="The root">
<meta property="og:type" content="website">
</head><body>
<a href="/a">A</a>
<a href="/b">B</a>
<a href="https://other.example/x">Other</a>
</body></html>`

func singleTarget(url string) model.CrawlTarget {
	return model.CrawlTarget{RootURL: url, MaxPages: 1, MaxDepth: 1}
}

func defaultOptions() model.FetchOptions {
	return model.FetchOptions{ExtractMetadata: true, ExtractLinks: true}
}

func newTestSession(f fetcher.PageFetcher, w ArtifactWriter, opts ...SessionOption) *Session {
	base := []SessionOption{
		WithClock(func() time.Time { return fixedTime }),
		WithSleeper(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
	}
	return NewSession(f, w, append(base, opts...)...)
}

func TestSessionSinglePage(t *testing.T) {
	t.Parallel()

	t.Run("writes the artifact family", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher()
		markdown := "# Root Page\n\nWelcome to the café."
		f.add("https://example.com/", rootHTML, markdown)

		dir := t.TempDir()
		options := defaultOptions()
		options.SaveRawCapture = true

		result := newTestSession(f, report.NewFileWriter(dir)).Run(context.Background(), singleTarget("https://example.com/"), options)
		if !result.Success {
			t.Fatalf("expected success, got error %q", result.Error)
		}

		stem := "example-com_20240102_030405"
		if result.PrimaryPath != filepath.Join(dir, stem+".md") {
			t.Errorf("unexpected primary path %q", result.PrimaryPath)
		}
		if result.RawPath != filepath.Join(dir, "html", stem+".html") {
			t.Errorf("unexpected raw path %q", result.RawPath)
		}
		if result.LinksPath != filepath.Join(dir, stem+"_links.json") {
			t.Errorf("unexpected links path %q", result.LinksPath)
		}
		for _, p := range []string{result.PrimaryPath, result.RawPath, result.LinksPath} {
			if _, err := os.Stat(p); err != nil {
				t.Errorf("expected %s to exist: %v", p, err)
			}
		}

		if result.ContentLength != utf8.RuneCountInString(markdown) {
			t.Errorf("expected content length %d, got %d", utf8.RuneCountInString(markdown), result.ContentLength)
		}
		if result.Title != "Root Page" {
			t.Errorf("expected title %q, got %q", "Root Page", result.Title)
		}
		if result.Metadata["description"] != "The root" || result.Metadata["og:type"] != "website" {
			t.Errorf("unexpected metadata %v", result.Metadata)
		}
		if len(result.Links) != 3 || result.InternalLinkCount != 2 || result.ExternalLinkCount != 1 {
			t.Errorf("expected 2 internal and 1 external link, got %d/%d", result.InternalLinkCount, result.ExternalLinkCount)
		}
		if result.PagesCrawled != 1 {
			t.Errorf("expected 1 page, got %d", result.PagesCrawled)
		}
		if !result.CrawledAt.Equal(fixedTime) {
			t.Errorf("expected crawled at %v, got %v", fixedTime, result.CrawledAt)
		}
		if !slices.Equal(f.calls, []string{"https://example.com/"}) {
			t.Errorf("expected only the root to be fetched, got %v", f.calls)
		}

		primary, err := os.ReadFile(result.PrimaryPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(primary), "Welcome to the café.") {
			t.Error("expected content in primary document")
		}
	})

	t.Run("extraction switches", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher()
		f.add("https://example.com/", rootHTML, "no heading here")
		w := &stubWriter{}

		result := newTestSession(f, w).Run(context.Background(), singleTarget("https://example.com/"), model.FetchOptions{})
		if !result.Success {
			t.Fatalf("expected success, got %q", result.Error)
		}
		if len(result.Metadata) != 0 || len(result.Links) != 0 {
			t.Errorf("expected no metadata or links, got %v %v", result.Metadata, result.Links)
		}
		if result.Title != "Website Content" {
			t.Errorf("expected default title, got %q", result.Title)
		}
		if w.docs[0].SaveLinks || w.docs[0].SaveRawCapture {
			t.Error("expected optional artifacts to be disabled")
		}
	})
}

func TestSessionMultiPage(t *testing.T) {
	t.Parallel()

	newSite := func() *stubFetcher {
		f := newStubFetcher()
		f.add("https://example.com/", rootHTML, "# Root")
		f.add("https://example.com/a", `<html><head><meta name="description" content="page a"></head><body><a href="/c">C</a><a href="/">home</a></body></html>`, "page a")
		f.add("https://example.com/b", `<html><body><a href="/a">A again</a></body></html>`, "page b")
		f.add("https://example.com/c", `<html><body>leaf</body></html>`, "page c")
		return f
	}

	t.Run("fetches in breadth first order", func(t *testing.T) {
		t.Parallel()

		f := newSite()
		w := &stubWriter{}
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 10, MaxDepth: 2, FollowLinks: true, SameDomainOnly: true}

		result := newTestSession(f, w).Run(context.Background(), target, defaultOptions())
		if !result.Success {
			t.Fatalf("expected success, got %q", result.Error)
		}

		want := []string{"https://example.com/", "https://example.com/a", "https://example.com/b", "https://example.com/c"}
		if !slices.Equal(f.calls, want) {
			t.Errorf("expected %v, got %v", want, f.calls)
		}
		if result.PagesCrawled != 4 {
			t.Errorf("expected 4 pages, got %d", result.PagesCrawled)
		}

		content := "# Root\n\npage a\n\npage b\n\npage c"
		if w.docs[0].Content != content {
			t.Errorf("expected content %q, got %q", content, w.docs[0].Content)
		}
		if result.ContentLength != utf8.RuneCountInString(content) {
			t.Errorf("expected content length %d, got %d", len(content), result.ContentLength)
		}
		if result.Metadata["description"] != "The root" {
			t.Errorf("expected root metadata, got %v", result.Metadata)
		}
		if len(result.Links) != 3 {
			t.Errorf("expected root links only, got %d", len(result.Links))
		}
	})

	t.Run("depth limit", func(t *testing.T) {
		t.Parallel()

		f := newSite()
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 10, MaxDepth: 1, FollowLinks: true}

		result := newTestSession(f, &stubWriter{}).Run(context.Background(), target, defaultOptions())
		if !result.Success {
			t.Fatalf("expected success, got %q", result.Error)
		}
		if slices.Contains(f.calls, "https://example.com/c") {
			t.Errorf("expected depth 2 page to be skipped, got %v", f.calls)
		}
		if len(f.calls) != 3 {
			t.Errorf("expected 3 fetches, got %v", f.calls)
		}
	})

	t.Run("page limit", func(t *testing.T) {
		t.Parallel()

		f := newSite()
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 2, MaxDepth: 5, FollowLinks: true}

		newTestSession(f, &stubWriter{}).Run(context.Background(), target, defaultOptions())
		if len(f.calls) != 2 {
			t.Errorf("expected 2 fetches, got %v", f.calls)
		}
	})

	t.Run("follow links disabled", func(t *testing.T) {
		t.Parallel()

		f := newSite()
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 10, MaxDepth: 5}

		newTestSession(f, &stubWriter{}).Run(context.Background(), target, defaultOptions())
		if len(f.calls) != 1 {
			t.Errorf("expected only the root, got %v", f.calls)
		}
	})

	t.Run("link filter", func(t *testing.T) {
		t.Parallel()

		f := newSite()
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 10, MaxDepth: 1, FollowLinks: true}

		newTestSession(f, &stubWriter{}, WithLinkFilter(denyFilter{denied: "/b"})).Run(context.Background(), target, defaultOptions())
		if slices.Contains(f.calls, "https://example.com/b") {
			t.Errorf("expected /b to be filtered, got %v", f.calls)
		}
	})

	t.Run("redirected root keeps the root host", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher()
		f.redirect("https://example.com/", "https://www.example.com/",
			`<html><body><a href="https://example.com/x">X</a><a href="https://www.example.com/y">Y</a><a href="/z">Z</a></body></html>`, "# Root")
		f.add("https://example.com/x", `<html><body>x</body></html>`, "page x")
		f.add("https://example.com/z", `<html><body>z</body></html>`, "page z")
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 10, MaxDepth: 1, FollowLinks: true, SameDomainOnly: true}

		result := newTestSession(f, &stubWriter{}).Run(context.Background(), target, defaultOptions())
		if !result.Success {
			t.Fatalf("expected success, got %q", result.Error)
		}

		internal := map[string]bool{}
		for _, l := range result.Links {
			internal[l.URL] = l.IsInternal
		}
		if !internal["https://example.com/x"] || !internal["https://example.com/z"] {
			t.Errorf("expected root host links to be internal, got %v", internal)
		}
		if internal["https://www.example.com/y"] {
			t.Errorf("expected redirect host link to be external, got %v", internal)
		}

		want := []string{"https://example.com/", "https://example.com/x", "https://example.com/z"}
		if !slices.Equal(f.calls, want) {
			t.Errorf("expected %v, got %v", want, f.calls)
		}
	})

	t.Run("redirect target does not use the page budget", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher()
		f.redirect("http://example.com/", "https://example.com/home",
			`<html><body><a href="https://example.com/home">Home</a><a href="/a">A</a><a href="/b">B</a><a href="/c">C</a></body></html>`, "# Home")
		for _, p := range []string{"a", "b", "c"} {
			f.add("http://example.com/"+p, `<html><body>leaf</body></html>`, "page "+p)
		}
		target := model.CrawlTarget{RootURL: "http://example.com/", MaxPages: 4, MaxDepth: 1, FollowLinks: true, SameDomainOnly: true}

		result := newTestSession(f, &stubWriter{}).Run(context.Background(), target, defaultOptions())
		if !result.Success {
			t.Fatalf("expected success, got %q", result.Error)
		}
		if result.PagesCrawled != 4 {
			t.Errorf("expected 4 pages, got %d (%v)", result.PagesCrawled, f.calls)
		}
		if slices.Contains(f.calls, "http://example.com/home") {
			t.Errorf("expected redirect target not to be fetched again, got %v", f.calls)
		}
	})

	t.Run("failed page fails the session", func(t *testing.T) {
		t.Parallel()

		f := newSite()
		f.errs["https://example.com/b"] = errors.New("connection reset")
		w := &stubWriter{}
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 10, MaxDepth: 2, FollowLinks: true}

		result := newTestSession(f, w).Run(context.Background(), target, defaultOptions())
		if result.Success {
			t.Fatal("expected failure")
		}
		if !strings.Contains(result.Error, "https://example.com/b") || !strings.Contains(result.Error, "connection reset") {
			t.Errorf("unexpected error %q", result.Error)
		}
		if result.URL != "https://example.com/" {
			t.Errorf("expected root url in result, got %q", result.URL)
		}
		if len(w.docs) != 0 {
			t.Error("expected nothing to be written")
		}
		if slices.Contains(f.calls, "https://example.com/c") {
			t.Error("expected crawl to stop at the failure")
		}
	})
}

func TestSessionFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  model.CrawlTarget
		options model.FetchOptions
		want    string
	}{
		{"empty url", model.CrawlTarget{MaxPages: 1}, model.FetchOptions{}, "root url is empty"},
		{"relative url", singleTarget("/docs"), model.FetchOptions{}, "absolute"},
		{"ftp url", singleTarget("ftp://example.com/"), model.FetchOptions{}, "absolute"},
		{"zero pages", model.CrawlTarget{RootURL: "https://example.com/"}, model.FetchOptions{}, "max pages"},
		{"negative depth", model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 1, MaxDepth: -1}, model.FetchOptions{}, "max depth"},
		{"negative delay", singleTarget("https://example.com/"), model.FetchOptions{CrawlDelay: -time.Second}, "crawl delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newStubFetcher()
			sleeper := &sleepRecorder{}
			result := newTestSession(f, &stubWriter{}, WithSleeper(sleeper.sleep)).Run(context.Background(), tt.target, tt.options)

			if result.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(result.Error, ErrConfiguration.Error()) || !strings.Contains(result.Error, tt.want) {
				t.Errorf("expected configuration error mentioning %q, got %q", tt.want, result.Error)
			}
			if len(f.calls) != 0 || len(sleeper.delays) != 0 {
				t.Error("expected no fetch or sleep before validation")
			}
		})
	}

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher()
		f.add("https://example.com/", rootHTML, "# Root")
		w := &stubWriter{err: &report.WriteError{Path: "/out/example.md", Err: errors.New("disk full")}}

		result := newTestSession(f, w).Run(context.Background(), singleTarget("https://example.com/"), defaultOptions())
		if result.Success {
			t.Fatal("expected failure")
		}
		if !strings.Contains(result.Error, "/out/example.md") || !strings.Contains(result.Error, "disk full") {
			t.Errorf("unexpected error %q", result.Error)
		}
	})

	t.Run("nil page", func(t *testing.T) {
		t.Parallel()

		w := &stubWriter{}
		result := newTestSession(nilFetcher{}, w).Run(context.Background(), singleTarget("https://example.com/"), defaultOptions())
		if result.Success {
			t.Fatal("expected failure")
		}
		if !strings.Contains(result.Error, fetcher.ErrEmptyPage.Error()) {
			t.Errorf("expected empty page error, got %q", result.Error)
		}
		if len(w.docs) != 0 {
			t.Error("expected nothing to be written")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := newStubFetcher()
		f.add("https://example.com/", rootHTML, "# Root")

		result := NewSession(f, &stubWriter{}).Run(ctx, singleTarget("https://example.com/"), defaultOptions())
		if result.Success {
			t.Fatal("expected failure")
		}
		if len(f.calls) != 0 {
			t.Errorf("expected no fetch, got %v", f.calls)
		}
	})
}

func TestSessionPacingAndUserAgent(t *testing.T) {
	t.Parallel()

	t.Run("sleeps before every fetch", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher()
		f.add("https://example.com/", rootHTML, "# Root")
		f.add("https://example.com/a", "<p>a</p>", "a")
		f.add("https://example.com/b", "<p>b</p>", "b")

		sleeper := &sleepRecorder{}
		options := defaultOptions()
		options.CrawlDelay = 2 * time.Second
		target := model.CrawlTarget{RootURL: "https://example.com/", MaxPages: 3, MaxDepth: 1, FollowLinks: true}

		newTestSession(f, &stubWriter{}, WithSleeper(sleeper.sleep)).Run(context.Background(), target, options)

		if len(sleeper.delays) != 3 {
			t.Fatalf("expected 3 sleeps, got %d", len(sleeper.delays))
		}
		for _, d := range sleeper.delays {
			if d != 2*time.Second {
				t.Errorf("expected 2s delay, got %v", d)
			}
		}
	})

	t.Run("default and override user agent", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher()
		f.add("https://example.com/", rootHTML, "# Root")
		s := newTestSession(f, &stubWriter{}, WithUserAgents([]string{"pooled-agent"}))

		if s.UserAgent() != "pooled-agent" {
			t.Errorf("expected pooled agent, got %q", s.UserAgent())
		}

		s.Run(context.Background(), singleTarget("https://example.com/"), defaultOptions())
		options := defaultOptions()
		options.UserAgent = "custom-agent"
		s.Run(context.Background(), singleTarget("https://example.com/"), options)

		want := []string{"pooled-agent", "custom-agent"}
		if !slices.Equal(f.agents, want) {
			t.Errorf("expected %v, got %v", want, f.agents)
		}
	})

	t.Run("default pool", func(t *testing.T) {
		t.Parallel()

		s := NewSession(newStubFetcher(), &stubWriter{})
		if !slices.Contains(fetcher.DefaultUserAgents, s.UserAgent()) {
			t.Errorf("unexpected user agent %q", s.UserAgent())
		}
	})
}

func TestSleep(t *testing.T) {
	t.Parallel()

	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("expected cancelled sleep to return promptly")
	}
}

// stubRunner fails the URLs listed in failures.
type stubRunner struct {
	failures map[string]bool
	targets  []model.CrawlTarget
	options  []model.FetchOptions
	onRun    func(n int)
}

func (r *stubRunner) Run(_ context.Context, target model.CrawlTarget, options model.FetchOptions) model.CrawlResult {
	r.targets = append(r.targets, target)
	r.options = append(r.options, options)
	if r.onRun != nil {
		r.onRun(len(r.targets))
	}
	if r.failures[target.RootURL] {
		return model.NewFailureResult(target.RootURL, errors.New("boom"))
	}
	return model.NewSuccessResult(model.SuccessFields{URL: target.RootURL, Content: "ok"})
}

func TestBatch(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://a.example/",
		"https://b.example/",
		"https://c.example/",
		"https://d.example/",
		"https://e.example/",
	}
	template := model.CrawlTarget{MaxPages: 1, MaxDepth: 1}

	t.Run("isolates failures and keeps order", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{failures: map[string]bool{urls[1]: true, urls[3]: true}}
		sleeper := &sleepRecorder{}
		var hooked []int

		b := NewBatch(runner,
			WithBatchSleeper(sleeper.sleep),
			WithResultHook(func(i int, _ model.CrawlResult) { hooked = append(hooked, i) }),
		)
		result := b.RunBatch(context.Background(), urls, template, model.FetchOptions{CrawlDelay: time.Second})

		if result.Len() != len(urls) {
			t.Fatalf("expected %d results, got %d", len(urls), result.Len())
		}
		if result.Succeeded() != 3 || result.Failed() != 2 {
			t.Errorf("expected 3 succeeded and 2 failed, got %d/%d", result.Succeeded(), result.Failed())
		}
		for i, r := range result.Results {
			if r.URL != urls[i] {
				t.Errorf("result %d: expected url %s, got %s", i, urls[i], r.URL)
			}
		}
		if len(sleeper.delays) != len(urls)-1 {
			t.Errorf("expected %d sleeps, got %d", len(urls)-1, len(sleeper.delays))
		}
		if !slices.Equal(hooked, []int{0, 1, 2, 3, 4}) {
			t.Errorf("unexpected hook calls %v", hooked)
		}
		for _, target := range runner.targets {
			if target.MaxPages != 1 || target.MaxDepth != 1 {
				t.Errorf("expected template limits, got %+v", target)
			}
		}
	})

	t.Run("single url does not sleep", func(t *testing.T) {
		t.Parallel()

		sleeper := &sleepRecorder{}
		NewBatch(&stubRunner{}, WithBatchSleeper(sleeper.sleep)).
			RunBatch(context.Background(), urls[:1], template, model.FetchOptions{CrawlDelay: time.Second})
		if len(sleeper.delays) != 0 {
			t.Errorf("expected no sleep, got %d", len(sleeper.delays))
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		result := NewBatch(&stubRunner{}).RunBatch(context.Background(), nil, template, model.FetchOptions{})
		if result.Len() != 0 {
			t.Errorf("expected no results, got %d", result.Len())
		}
	})

	t.Run("cancellation fills remaining entries", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		runner := &stubRunner{onRun: func(n int) {
			if n == 2 {
				cancel()
			}
		}}
		result := NewBatch(runner, WithBatchSleeper(Sleep)).RunBatch(ctx, urls, template, model.FetchOptions{})

		if len(runner.targets) != 2 {
			t.Errorf("expected 2 sessions, got %d", len(runner.targets))
		}
		if result.Len() != len(urls) {
			t.Fatalf("expected %d results, got %d", len(urls), result.Len())
		}
		for _, r := range result.Results[2:] {
			if r.Success || !strings.Contains(r.Error, "cancelled") {
				t.Errorf("expected cancelled failure for %s, got %+v", r.URL, r)
			}
		}
	})

	t.Run("overrides apply per url", func(t *testing.T) {
		t.Parallel()

		runner := &stubRunner{}
		b := NewBatch(runner, WithOverrides(func(rawURL string, target *model.CrawlTarget, options *model.FetchOptions) {
			if rawURL == urls[0] {
				target.MaxPages = 7
				options.Cookie = "a=1"
			}
		}))
		b.RunBatch(context.Background(), urls[:2], template, model.FetchOptions{})

		if runner.targets[0].MaxPages != 7 || runner.options[0].Cookie != "a=1" {
			t.Errorf("expected override on first url, got %+v", runner.targets[0])
		}
		if runner.targets[1].MaxPages != 1 || runner.options[1].Cookie != "" {
			t.Errorf("expected template on second url, got %+v", runner.targets[1])
		}
	})
}
