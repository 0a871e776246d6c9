package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// DefaultBrowserTimeout bounds one page load in the headless browser.
const DefaultBrowserTimeout = 60 * time.Second

// BrowserFetcher renders pages in a Chrome instance driven by chromedp.
// The browser starts on the first Fetch and is shared by later calls; each
// call gets its own tab. Call Close to shut the browser down.
type BrowserFetcher struct {
	headless     bool
	timeout      time.Duration
	userAgent    string
	waitSelector string
	execPath     string
	proxyServer  string
	settle       time.Duration
	logger       *slog.Logger

	mu            sync.Mutex
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

// BrowserOption configures a BrowserFetcher.
type BrowserOption func(*BrowserFetcher)

// WithHeadless toggles headless mode. Headless is the default.
func WithHeadless(headless bool) BrowserOption {
	return func(b *BrowserFetcher) {
		b.headless = headless
	}
}

// WithBrowserTimeout sets the per-page load timeout.
func WithBrowserTimeout(d time.Duration) BrowserOption {
	return func(b *BrowserFetcher) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithBrowserUserAgent sets the user agent used when the caller passes none.
func WithBrowserUserAgent(ua string) BrowserOption {
	return func(b *BrowserFetcher) {
		b.userAgent = ua
	}
}

// WithWaitSelector sets the CSS selector that must be ready before the
// page is captured. Defaults to "body".
func WithWaitSelector(selector string) BrowserOption {
	return func(b *BrowserFetcher) {
		if selector != "" {
			b.waitSelector = selector
		}
	}
}

// WithExecPath sets the Chrome executable.
func WithExecPath(path string) BrowserOption {
	return func(b *BrowserFetcher) {
		b.execPath = path
	}
}

// WithProxyServer routes the browser through a proxy such as
// "socks5://127.0.0.1:9050".
func WithProxyServer(proxy string) BrowserOption {
	return func(b *BrowserFetcher) {
		b.proxyServer = proxy
	}
}

// WithSettleTime waits this long after the page is ready, giving scripts
// time to render.
func WithSettleTime(d time.Duration) BrowserOption {
	return func(b *BrowserFetcher) {
		b.settle = d
	}
}

// WithBrowserLogger sets the logger.
func WithBrowserLogger(logger *slog.Logger) BrowserOption {
	return func(b *BrowserFetcher) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBrowserFetcher creates a BrowserFetcher. No browser is started until
// the first Fetch.
func NewBrowserFetcher(opts ...BrowserOption) *BrowserFetcher {
	b := &BrowserFetcher{
		headless:     true,
		timeout:      DefaultBrowserTimeout,
		userAgent:    DefaultUserAgents[0],
		waitSelector: "body",
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// start launches the browser once.
func (b *BrowserFetcher) start() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.UserAgent(b.userAgent),
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
	)
	if b.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.execPath))
	}
	if b.proxyServer != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(b.proxyServer))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	b.logger.Debug("browser started", "headless", b.headless)

	b.browserCtx = browserCtx
	b.allocCancel = allocCancel
	b.browserCancel = browserCancel
	return browserCtx, nil
}

// Fetch implements PageFetcher.
func (b *BrowserFetcher) Fetch(ctx context.Context, pageURL string, opts Options) (*Page, error) {
	browserCtx, err := b.start()
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	ua := opts.UserAgent
	if ua == "" {
		ua = b.userAgent
	}

	headers := network.Headers{}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	if opts.Cookie != "" {
		headers["Cookie"] = opts.Cookie
	}

	var (
		html     string
		location string
	)
	actions := []chromedp.Action{
		emulation.SetUserAgentOverride(ua),
	}
	if len(headers) > 0 {
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(headers))
	}
	actions = append(actions,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(b.waitSelector, chromedp.ByQuery),
	)
	if b.settle > 0 {
		actions = append(actions, chromedp.Sleep(b.settle))
	}
	actions = append(actions,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("%s: %w", pageURL, ErrEmptyPage)
	}
	if location == "" {
		location = pageURL
	}

	markdown, err := toMarkdown(location, html)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("rendered page", "url", location, "bytes", len(html))

	return &Page{
		URL:      location,
		HTML:     html,
		Markdown: markdown,
	}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *BrowserFetcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx == nil {
		return nil
	}
	b.browserCancel()
	b.allocCancel()
	b.browserCtx = nil
	return nil
}
