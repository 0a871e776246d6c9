// Package crawler runs crawl sessions and batches of them.
//
// # Session
//
// A Session takes one CrawlTarget from its root URL to a written artifact
// family. Pages are fetched in breadth-first layers from a frontier.
// Metadata and links are taken from the root page only; pages reached by
// following links contribute their markdown to the content and their
// links to the frontier.
//
// Any fetch failure fails the session. A session never returns a Go
// error: failures are reported in the CrawlResult.
//
//	session := crawler.NewSession(fetcher.NewHTTPFetcher(), report.NewFileWriter(dir))
//	result := session.Run(ctx, target, options)
//
// # Batch
//
// A Batch runs one session per URL, strictly in order, sleeping the crawl
// delay between sessions. Failed URLs are recorded and the batch carries on.
//
// # Politeness
//
// The crawl delay is slept before every page fetch, and a LinkFilter such
// as fetcher.RobotsPolicy can screen discovered links.
package crawler
