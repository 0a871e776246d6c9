// Package main provides the entry point for the siteanalyzer CLI.
//
// siteanalyzer crawls websites and turns them into markdown documents with
// optional raw HTML captures and JSON link indexes.
//
// Usage:
//
//	siteanalyzer crawl <url>
//	siteanalyzer batch <url>... | --list <file>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
