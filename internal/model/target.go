package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Validation errors for CrawlTarget and FetchOptions.
var (
	// ErrEmptyRootURL is returned when a target has no root URL.
	ErrEmptyRootURL = errors.New("root url is empty")

	// ErrInvalidRootURL is returned when the root URL cannot be parsed,
	// is not http(s), or carries no host.
	ErrInvalidRootURL = errors.New("root url must be an absolute http or https url")

	// ErrInvalidMaxPages is returned when MaxPages is less than 1.
	ErrInvalidMaxPages = errors.New("max pages must be at least 1")

	// ErrInvalidMaxDepth is returned when MaxDepth is negative.
	ErrInvalidMaxDepth = errors.New("max depth must be non-negative")

	// ErrInvalidCrawlDelay is returned when CrawlDelay is negative.
	ErrInvalidCrawlDelay = errors.New("crawl delay must be non-negative")
)

// CrawlTarget describes one logical crawl: a root URL and the limits
// that bound traversal from it. A target is never mutated once a session
// has started.
type CrawlTarget struct {
	// RootURL is the page the session starts from (depth 0).
	RootURL string `json:"root_url"`

	// MaxPages caps the number of distinct URLs the session may visit,
	// including the root.
	MaxPages int `json:"max_pages"`

	// MaxDepth is the deepest link distance from the root that may be
	// fetched. Depth 0 means only the root.
	MaxDepth int `json:"max_depth"`

	// FollowLinks enables traversal beyond the root page.
	FollowLinks bool `json:"follow_links"`

	// SameDomainOnly restricts traversal to URLs whose host equals the
	// root host.
	SameDomainOnly bool `json:"same_domain_only"`
}

// Validate checks the target limits and root URL.
func (t CrawlTarget) Validate() error {
	if strings.TrimSpace(t.RootURL) == "" {
		return ErrEmptyRootURL
	}
	if _, err := t.Root(); err != nil {
		return err
	}
	if t.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	if t.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	return nil
}

// Root parses RootURL and checks that it is an absolute http(s) URL.
func (t CrawlTarget) Root() (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(t.RootURL))
	if err != nil {
		return nil, ErrInvalidRootURL
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, ErrInvalidRootURL
	}
	return u, nil
}

// Multipage reports whether the target allows visiting more than the root.
func (t CrawlTarget) Multipage() bool {
	return t.FollowLinks && t.MaxPages > 1 && t.MaxDepth > 0
}

// FetchOptions are the fetch and extraction switches shared by every page
// of one session, and by every session of a batch.
type FetchOptions struct {
	// UserAgent overrides the session default user agent when set.
	UserAgent string `json:"user_agent,omitempty"`

	// CrawlDelay is the pause before the first fetch of a session and
	// between page fetches. In batch mode it is also the pause between
	// sessions.
	CrawlDelay time.Duration `json:"crawl_delay"`

	// SaveRawCapture writes the root page HTML next to the markdown.
	SaveRawCapture bool `json:"save_raw_capture"`

	// ExtractMetadata enables <title> and <meta> extraction.
	ExtractMetadata bool `json:"extract_metadata"`

	// ExtractLinks enables link extraction, the links section of the
	// primary document and the link index file.
	ExtractLinks bool `json:"extract_links"`

	// Headers are extra request headers sent with every fetch.
	Headers map[string]string `json:"-"`

	// Cookie is sent as the Cookie header with every fetch.
	Cookie string `json:"-"`
}

// Validate checks the fetch options.
func (o FetchOptions) Validate() error {
	if o.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	return nil
}

// FrontierEntry is a URL waiting to be fetched.
type FrontierEntry struct {
	URL   string `json:"url"`
	Depth int    `json:"depth"`
}
