package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/siteanalyzer/internal/config"
	"github.com/nao1215/siteanalyzer/internal/crawler"
	"github.com/nao1215/siteanalyzer/internal/database"
	"github.com/nao1215/siteanalyzer/internal/fetcher"
	"github.com/nao1215/siteanalyzer/internal/log"
	"github.com/nao1215/siteanalyzer/internal/model"
	"github.com/nao1215/siteanalyzer/internal/report"
	"github.com/nao1215/siteanalyzer/internal/tor"
)

// addCrawlFlags registers the flags shared by crawl and batch. delay is the
// default of --crawl-delay, which differs between the two commands.
func addCrawlFlags(cmd *cobra.Command, delay time.Duration) {
	flags := cmd.Flags()

	flags.StringP("output", "o", "", "Artifact directory (default: $XDG_DATA_HOME/siteanalyzer/output)")
	flags.String("db-dir", "", "History database directory (default: $XDG_DATA_HOME/siteanalyzer)")
	flags.Bool("no-history", false, "Do not record results in the history database")

	flags.IntP("max-pages", "p", config.DefaultMaxPages, "Maximum pages per root URL, the root included")
	flags.IntP("depth", "d", config.DefaultDepth, "Maximum link distance from the root page")
	flags.BoolP("follow-links", "f", false, "Follow links found on crawled pages")
	flags.Bool("same-domain", true, "Only follow links on the root host")
	flags.Bool("save-html", false, "Save the raw HTML of the root page")
	flags.Bool("save-links", true, "Extract links and write the link index")
	flags.Bool("metadata", true, "Extract <title> and <meta> values")
	flags.Duration("crawl-delay", delay, "Pause before each page fetch")
	flags.StringP("user-agent", "u", "", "User agent (default: a random desktop browser)")
	flags.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each page fetch")
	flags.Int64("max-body-size", config.DefaultMaxBodySize, "Maximum response body size in bytes")
	flags.Bool("respect-robots", false, "Skip links disallowed by robots.txt")

	flags.StringP("renderer", "r", config.RendererHTTP, "Page renderer: http or browser")
	flags.Bool("headless", true, "Run the browser renderer without a window")
	flags.String("chrome-path", "", "Chrome executable for the browser renderer")

	flags.Bool("tor", false, "Route requests through Tor (automatic for .onion targets)")
	flags.StringP("external-tor", "e", "", "Use the Tor proxy at this address instead of an embedded daemon")
	flags.Duration("tor-timeout", config.DefaultTorStartupTimeout, "Timeout for embedded Tor startup")
}

// buildConfig creates a Config from defaults, the configuration file and
// command flags.
func buildConfig(cmd *cobra.Command, targets []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if dir, _ := flags.GetString("output"); dir != "" {
		cfg.OutputDir = dir
	}
	if dir, _ := flags.GetString("db-dir"); dir != "" {
		cfg.DBDir = dir
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.Depth, err = flags.GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.FollowLinks, err = flags.GetBool("follow-links"); err != nil {
		return nil, err
	}
	if cfg.SameDomainOnly, err = flags.GetBool("same-domain"); err != nil {
		return nil, err
	}
	if cfg.SaveHTML, err = flags.GetBool("save-html"); err != nil {
		return nil, err
	}
	if cfg.SaveLinks, err = flags.GetBool("save-links"); err != nil {
		return nil, err
	}
	if cfg.ExtractMetadata, err = flags.GetBool("metadata"); err != nil {
		return nil, err
	}
	if cfg.CrawlDelay, err = flags.GetDuration("crawl-delay"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
		return nil, err
	}
	if cfg.Renderer, err = flags.GetString("renderer"); err != nil {
		return nil, err
	}
	if cfg.Headless, err = flags.GetBool("headless"); err != nil {
		return nil, err
	}
	if cfg.ChromePath, err = flags.GetString("chrome-path"); err != nil {
		return nil, err
	}

	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	externalTor, err := flags.GetString("external-tor")
	if err != nil {
		return nil, err
	}
	if externalTor != "" {
		cfg.UseTor = true
		cfg.UseExternalTor = true
		cfg.TorProxyAddress = externalTor
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}

	cfg.Verbose = boolFlag(cmd, "verbose")
	cfg.LogFile = stringFlag(cmd, "log-file")
	cfg.ConfigFilePath = stringFlag(cmd, "config")

	if cfg.SiteConfigs, err = loadSiteConfigs(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	cfg.Targets = targets
	return cfg, nil
}

// loadSiteConfigs loads the configuration file. An explicit path must
// exist; otherwise a missing file yields an empty configuration.
func loadSiteConfigs(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return &config.File{Sites: make(map[string]config.SiteConfig)}, nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return file, nil
}

// boolFlag and stringFlag read flags that are persistent on the root
// command. They fall back to the zero value when a subcommand runs on its
// own.
func boolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, _ = cmd.Root().PersistentFlags().GetBool(name)
	}
	return v
}

func stringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, _ = cmd.Root().PersistentFlags().GetString(name)
	}
	return v
}

// app holds the components shared by one crawl or batch invocation.
type app struct {
	cfg     *config.Config
	out     io.Writer
	errOut  io.Writer
	logger  *log.Logger
	db      *database.CrawlDB
	session *crawler.Session
	closers []func() error
}

// newApp wires logging, history, transport, fetcher and session for cfg.
// The caller must call close.
func newApp(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger, err := log.New(log.Options{
		Console: cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
		File:    cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	a := &app{cfg: cfg, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), logger: logger}
	a.closers = append(a.closers, logger.Close)

	if err := a.setup(ctx); err != nil {
		_ = a.close() //nolint:errcheck // best effort
		return nil, err
	}
	return a, nil
}

func (a *app) setup(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger.Logger

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		logger.Debug("history database opened", "path", db.Path())
	}

	for _, target := range cfg.Targets {
		if tor.IsOnionURL(target) && !cfg.UseTor {
			logger.Info("onion target found, routing through Tor", "url", target)
			cfg.UseTor = true
		}
	}

	var torClient *tor.Client
	if cfg.UseTor {
		client, err := a.connectTor(ctx)
		if err != nil {
			return err
		}
		torClient = client
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = fetcher.PickUserAgent(nil, nil)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if torClient != nil {
		httpClient = torClient.NewHTTPClient()
	}

	var pageFetcher fetcher.PageFetcher
	switch cfg.Renderer {
	case config.RendererBrowser:
		opts := []fetcher.BrowserOption{
			fetcher.WithHeadless(cfg.Headless),
			fetcher.WithBrowserTimeout(cfg.Timeout),
			fetcher.WithBrowserUserAgent(ua),
			fetcher.WithExecPath(cfg.ChromePath),
			fetcher.WithBrowserLogger(logger),
		}
		if torClient != nil {
			opts = append(opts, fetcher.WithProxyServer(torClient.ProxyURL()))
		}
		browser := fetcher.NewBrowserFetcher(opts...)
		a.closers = append(a.closers, browser.Close)
		pageFetcher = browser
	default:
		pageFetcher = fetcher.NewHTTPFetcher(
			fetcher.WithHTTPClient(httpClient),
			fetcher.WithDefaultUserAgent(ua),
			fetcher.WithMaxBodySize(cfg.MaxBodySize),
			fetcher.WithHTTPLogger(logger),
		)
	}

	sessionOpts := []crawler.SessionOption{
		crawler.WithLogger(logger),
		crawler.WithUserAgents([]string{ua}),
	}
	if cfg.RespectRobots {
		sessionOpts = append(sessionOpts, crawler.WithLinkFilter(fetcher.NewRobotsPolicy(httpClient, ua, logger)))
	}

	a.session = crawler.NewSession(pageFetcher, report.NewFileWriter(cfg.OutputDir), sessionOpts...)
	return nil
}

// connectTor returns a client for the external proxy, or starts an
// embedded daemon and registers its shutdown.
func (a *app) connectTor(ctx context.Context) (*tor.Client, error) {
	cfg := a.cfg
	logger := a.logger.Logger

	insecure := false
	for _, target := range cfg.Targets {
		if tor.IsOnionURL(target) {
			insecure = true
			break
		}
	}
	clientOpts := []tor.ClientOption{tor.WithInsecureTLS(insecure)}

	if cfg.UseExternalTor {
		client, err := tor.NewClient(cfg.TorProxyAddress, cfg.Timeout, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create Tor client: %w", err)
		}
		if status := client.CheckConnection(ctx); status != tor.ProxyStatusOK {
			return nil, fmt.Errorf("tor proxy check failed: %w (make sure Tor is running at %s)",
				status.Err(), cfg.TorProxyAddress)
		}
		logger.Info("Tor proxy connection verified", "address", cfg.TorProxyAddress)
		return client, nil
	}

	fmt.Fprintln(a.out, "Starting embedded Tor daemon...")
	fmt.Fprintf(a.out, "This may take 1-3 minutes while Tor bootstraps.\n\n")

	embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := embedded.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}
	a.closers = append(a.closers, func() error {
		logger.Info("stopping embedded Tor daemon")
		return embedded.Stop()
	})
	logger.Info("embedded Tor daemon started",
		"socks_addr", embedded.SocksAddr(),
		"control_addr", embedded.ControlAddr(),
	)

	client, err := embedded.NewClient(cfg.Timeout, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tor client: %w", err)
	}
	if status := client.CheckConnection(ctx); status != tor.ProxyStatusOK {
		return nil, fmt.Errorf("embedded Tor proxy check failed: %w", status.Err())
	}
	return client, nil
}

// target returns the crawl limits and options for rawURL with its site
// overrides applied.
func (a *app) target(rawURL string) (model.CrawlTarget, model.FetchOptions) {
	target := a.cfg.CrawlTarget(rawURL)
	options := a.cfg.FetchOptions()
	a.cfg.ApplySite(rawURL, &target, &options)
	return target, options
}

// record stores result in the history database, if enabled. Failures are
// logged and otherwise ignored.
func (a *app) record(ctx context.Context, result model.CrawlResult) {
	if a.db == nil {
		return
	}
	id, err := a.db.SaveResult(ctx, result)
	if err != nil {
		a.logger.Error("failed to record crawl history", "url", result.URL, "error", err)
		return
	}
	a.logger.Debug("crawl recorded", "url", result.URL, "history_id", id)
}

// close releases resources in reverse order of acquisition.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
