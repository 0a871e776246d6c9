// Package fetcher turns URLs into rendered pages for the crawl engine.
//
// The engine depends only on the PageFetcher interface. Two
// implementations are provided:
//   - HTTPFetcher: a plain net/http GET, suitable for static sites and for
//     routing through a Tor SOCKS5 proxy
//   - BrowserFetcher: headless Chrome driven by chromedp, for pages that
//     need JavaScript to render
//
// Both return the HTML and a markdown rendition produced by
// html-to-markdown. Timeouts and cancellation are owned by the fetcher:
// the HTTP client timeout, the browser navigation timeout and the context
// passed to Fetch.
//
// RobotsPolicy optionally filters discovered URLs through robots.txt.
package fetcher
