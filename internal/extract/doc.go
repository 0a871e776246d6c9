// Package extract derives structured signals from fetched pages.
//
// Every function in this package is pure and total: it performs no I/O and
// never fails on malformed input. A signal that cannot be found is simply
// absent from the result.
//
// # Components
//
//   - Title: the page title from the markdown rendition
//   - Metadata: <title>, description, keywords and Open Graph values
//   - Links: classified hyperlinks resolved against the page URL
//
// HTML is parsed once with golang.org/x/net/html and queried with goquery.
// Markdown headings are found through the goldmark AST.
//
// # Usage
//
//	doc := extract.Parse(rawHTML)
//	meta := doc.Metadata()
//	links := doc.Links("https://example.com/")
//	title := extract.Title(markdown)
package extract
