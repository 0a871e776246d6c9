// Package report writes the artifacts of a crawl session to disk.
//
// One crawl produces a family of up to three files sharing the stem
// {host-slug}_{timestamp}:
//   - {stem}.md: the primary markdown document (MarkdownWriter)
//   - html/{stem}.html: the raw HTML capture of the root page
//   - {stem}_links.json: the link index (JSONWriter)
//
// FileWriter creates the output directories, renders every artifact and
// writes each file through a temporary file that is renamed into place.
// List enumerates the artifacts found in an output directory.
package report
