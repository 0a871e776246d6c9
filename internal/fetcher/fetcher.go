package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Fetch errors.
var (
	// ErrUnexpectedStatus is returned when the server answers with a
	// non-2xx status code.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// ErrEmptyPage is returned when a page renders to nothing.
	ErrEmptyPage = errors.New("page has no content")
)

// PageFetcher fetches and renders a single page.
type PageFetcher interface {
	// Fetch retrieves url. A non-nil error means the fetch failed and the
	// returned page must be ignored.
	Fetch(ctx context.Context, url string, opts Options) (*Page, error)
}

// Options are per-call fetch settings.
type Options struct {
	// UserAgent is sent as the User-Agent header. When empty the
	// fetcher's own default is used.
	UserAgent string

	// Headers are additional request headers.
	Headers map[string]string

	// Cookie is sent as the Cookie header.
	Cookie string
}

// Page is a fetched and rendered page.
type Page struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status code, 0 when unknown.
	StatusCode int

	// HTML is the raw (or rendered) HTML document.
	HTML string

	// Markdown is the markdown rendition of HTML.
	Markdown string
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap returns ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// applyHeaders sets the common request headers on req.
func applyHeaders(req *http.Request, userAgent string, opts Options) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if opts.Cookie != "" {
		req.Header.Set("Cookie", opts.Cookie)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
}
