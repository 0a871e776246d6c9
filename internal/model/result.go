package model

import (
	"time"
	"unicode/utf8"
)

// CrawlResult is the outcome of one crawl session.
//
// A result is either a success with every content field populated or a
// failure with only URL and Error set. Use NewSuccessResult and
// NewFailureResult to build one.
type CrawlResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`

	// PrimaryPath is the markdown document path.
	PrimaryPath string `json:"file_path,omitempty"`

	// RawPath is the raw HTML capture path, empty when not written.
	RawPath string `json:"html_path,omitempty"`

	// LinksPath is the link index path, empty when not written.
	LinksPath string `json:"links_path,omitempty"`

	Title string `json:"title,omitempty"`

	// ContentLength is the number of characters in the content body.
	ContentLength int `json:"content_length"`

	// Metadata and Links come from the root page only.
	Metadata PageMetadata    `json:"metadata,omitempty"`
	Links    []ExtractedLink `json:"links,omitempty"`

	InternalLinkCount int `json:"internal_links_count"`
	ExternalLinkCount int `json:"external_links_count"`

	// PagesCrawled is the number of pages fetched by the session.
	PagesCrawled int `json:"pages_crawled,omitempty"`

	// CrawledAt is when the session started.
	CrawledAt time.Time `json:"crawled_at,omitzero"`

	Error string `json:"error,omitempty"`
}

// SuccessFields carries the content of a successful session.
type SuccessFields struct {
	URL          string
	PrimaryPath  string
	RawPath      string
	LinksPath    string
	Title        string
	Content      string
	Metadata     PageMetadata
	Links        []ExtractedLink
	PagesCrawled int
	CrawledAt    time.Time
}

// NewSuccessResult builds a successful result. Link counts and content
// length are derived from the fields.
func NewSuccessResult(f SuccessFields) CrawlResult {
	internal, external := CountLinks(f.Links)
	metadata := f.Metadata
	if metadata == nil {
		metadata = PageMetadata{}
	}
	links := f.Links
	if links == nil {
		links = []ExtractedLink{}
	}
	return CrawlResult{
		Success:           true,
		URL:               f.URL,
		PrimaryPath:       f.PrimaryPath,
		RawPath:           f.RawPath,
		LinksPath:         f.LinksPath,
		Title:             f.Title,
		ContentLength:     utf8.RuneCountInString(f.Content),
		Metadata:          metadata,
		Links:             links,
		InternalLinkCount: internal,
		ExternalLinkCount: external,
		PagesCrawled:      f.PagesCrawled,
		CrawledAt:         f.CrawledAt,
	}
}

// NewFailureResult builds a failed result for url.
func NewFailureResult(url string, err error) CrawlResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return CrawlResult{
		Success: false,
		URL:     url,
		Error:   msg,
	}
}

// BatchResult holds one CrawlResult per input URL, in input order.
type BatchResult struct {
	Results []CrawlResult `json:"results"`
}

// Len returns the number of results.
func (b BatchResult) Len() int {
	return len(b.Results)
}

// Succeeded returns the number of successful sessions.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed sessions.
func (b BatchResult) Failed() int {
	return len(b.Results) - b.Succeeded()
}
