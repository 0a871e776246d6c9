// Package model defines the data structures shared by the crawl engine.
//
// This package contains the following main types:
//   - CrawlTarget: One root URL plus its page, depth and domain limits
//   - FetchOptions: Per-session fetch and extraction switches
//   - FrontierEntry: A URL waiting to be fetched at a given depth
//   - ExtractedLink: A classified hyperlink found on a page
//   - PageMetadata: Title, description, keywords and Open Graph values
//   - CrawlResult: The outcome of one crawl session
//   - BatchResult: Ordered outcomes of a batch of sessions
//
// The types are serializable to JSON so they can be stored in the crawl
// history and written to link index files.
package model
