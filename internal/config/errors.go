package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no URL is given on the command line or
	// in a list file.
	ErrNoTarget = errors.New("no target specified: provide a url or use --list")

	// ErrInvalidMaxPages is returned when max pages is less than 1.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be at least 1")

	// ErrInvalidMaxDepth is returned when the depth is negative.
	ErrInvalidMaxDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidCrawlDelay is returned when a crawl or batch delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidRenderer is returned for an unknown renderer name.
	ErrInvalidRenderer = errors.New("invalid renderer: must be http or browser")
)
