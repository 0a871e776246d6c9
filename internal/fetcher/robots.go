package fetcher

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// maxRobotsBodySize caps the robots.txt body read.
const maxRobotsBodySize = 512 * 1024

// RobotsPolicy answers whether a URL may be crawled according to the
// robots.txt of its host. Rules are fetched once per host and cached.
// A robots.txt that cannot be fetched, or answers with a non-2xx status,
// allows everything.
type RobotsPolicy struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	mu    sync.Mutex
	rules map[string]*robotstxt.RobotsData // nil entry means allow all
}

// NewRobotsPolicy creates a RobotsPolicy that matches rules against
// userAgent. A nil client uses a client with DefaultTimeout.
func NewRobotsPolicy(client *http.Client, userAgent string, logger *slog.Logger) *RobotsPolicy {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsPolicy{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		rules:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether rawURL may be fetched.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	data := p.rulesFor(ctx, u)
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, p.userAgent)
}

func (p *RobotsPolicy) rulesFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	host := strings.ToLower(u.Host)

	p.mu.Lock()
	defer p.mu.Unlock()

	if data, ok := p.rules[host]; ok {
		return data
	}

	data := p.fetch(ctx, u.Scheme+"://"+u.Host+"/robots.txt")
	p.rules[host] = data
	return data
}

func (p *RobotsPolicy) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("robots.txt unavailable, allowing all", "url", robotsURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodySize))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		p.logger.Debug("robots.txt unparsable, allowing all", "url", robotsURL, "error", err)
		return nil
	}
	return data
}
