package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/siteanalyzer/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "siteanalyzer"

	// DefaultMaxPages crawls only the root page of a single target.
	DefaultMaxPages = 1

	// DefaultDepth allows one level of links when following is enabled.
	DefaultDepth = 1

	// DefaultCrawlDelay is the pause before each page fetch of a session.
	DefaultCrawlDelay time.Duration = 0

	// DefaultBatchDelay is the pause between sessions of a batch.
	DefaultBatchDelay = 1 * time.Second

	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTorProxyAddress is the standard Tor SOCKS5 proxy address.
	DefaultTorProxyAddress = "127.0.0.1:9050"

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Renderers accepted by Config.Renderer.
const (
	// RendererHTTP fetches pages with a plain HTTP client.
	RendererHTTP = "http"

	// RendererBrowser renders pages with headless Chrome.
	RendererBrowser = "browser"
)

// Config holds all configuration options for siteanalyzer.
// It is populated from defaults, the configuration file and CLI flags, and
// passed through the application rather than kept in global state.
type Config struct {
	// OutputDir is where artifacts are written.
	// Defaults to $XDG_DATA_HOME/siteanalyzer/output.
	OutputDir string

	// DBDir is the directory of the crawl history database.
	DBDir string

	// SaveToDB records every crawl result in the history database.
	SaveToDB bool

	// MaxPages caps the pages visited per root URL, the root included.
	MaxPages int

	// Depth is the maximum link distance from the root.
	Depth int

	// FollowLinks enables traversal beyond the root page.
	FollowLinks bool

	// SameDomainOnly keeps traversal on the root host.
	SameDomainOnly bool

	// SaveHTML writes the raw HTML capture of the root page.
	SaveHTML bool

	// SaveLinks extracts links and writes the link index.
	SaveLinks bool

	// ExtractMetadata extracts <title> and <meta> values.
	ExtractMetadata bool

	// CrawlDelay is the pause before each page fetch.
	CrawlDelay time.Duration

	// BatchDelay is the pause between sessions of a batch.
	BatchDelay time.Duration

	// UserAgent overrides the randomly picked default user agent.
	UserAgent string

	// Timeout bounds a single page fetch.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Renderer selects the page fetcher: RendererHTTP or RendererBrowser.
	Renderer string

	// Headless runs the browser renderer without a window.
	Headless bool

	// ChromePath is the browser executable; empty lets chromedp find one.
	ChromePath string

	// RespectRobots screens discovered links with robots.txt.
	RespectRobots bool

	// UseTor routes every request through Tor.
	UseTor bool

	// UseExternalTor uses the proxy at TorProxyAddress instead of starting
	// an embedded Tor daemon. Only meaningful with UseTor.
	UseExternalTor bool

	// TorProxyAddress is the external Tor SOCKS5 proxy in "host:port" form.
	TorProxyAddress string

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon to bootstrap.
	TorStartupTimeout time.Duration

	// LogFile, when set, receives JSON logs with rotation.
	LogFile string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file. If empty the default
	// locations are searched.
	ConfigFilePath string

	// SiteConfigs holds the defaults and per-host overrides loaded from
	// the configuration file.
	SiteConfigs *File

	// Targets are the root URLs to crawl.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputDir:         filepath.Join(XDGDataDir(), "output"),
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
		MaxPages:          DefaultMaxPages,
		Depth:             DefaultDepth,
		SameDomainOnly:    true,
		SaveLinks:         true,
		ExtractMetadata:   true,
		CrawlDelay:        DefaultCrawlDelay,
		BatchDelay:        DefaultBatchDelay,
		Timeout:           DefaultTimeout,
		MaxBodySize:       DefaultMaxBodySize,
		Renderer:          RendererHTTP,
		Headless:          true,
		TorProxyAddress:   DefaultTorProxyAddress,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// XDGDataDir returns the XDG data directory for siteanalyzer.
// On Linux: ~/.local/share/siteanalyzer
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for siteanalyzer.
// On Linux: ~/.config/siteanalyzer
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	if c.Depth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.CrawlDelay < 0 || c.BatchDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Renderer != RendererHTTP && c.Renderer != RendererBrowser {
		return ErrInvalidRenderer
	}
	return nil
}

// CrawlTarget returns the crawl limits for rootURL.
func (c *Config) CrawlTarget(rootURL string) model.CrawlTarget {
	return model.CrawlTarget{
		RootURL:        rootURL,
		MaxPages:       c.MaxPages,
		MaxDepth:       c.Depth,
		FollowLinks:    c.FollowLinks,
		SameDomainOnly: c.SameDomainOnly,
	}
}

// FetchOptions returns the fetch and extraction switches.
func (c *Config) FetchOptions() model.FetchOptions {
	return model.FetchOptions{
		UserAgent:       c.UserAgent,
		CrawlDelay:      c.CrawlDelay,
		SaveRawCapture:  c.SaveHTML,
		ExtractMetadata: c.ExtractMetadata,
		ExtractLinks:    c.SaveLinks,
	}
}

// ApplySite applies the configuration file overrides for the host of
// rawURL to target and options.
func (c *Config) ApplySite(rawURL string, target *model.CrawlTarget, options *model.FetchOptions) {
	if c.SiteConfigs == nil {
		return
	}
	c.SiteConfigs.GetSiteConfig(hostOf(rawURL)).Apply(target, options)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
