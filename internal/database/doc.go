// Package database stores the crawl history of siteanalyzer in SQLite
// (modernc.org/sqlite, no cgo).
//
// Every crawl result, successful or not, is saved as one row keyed by a
// UUID, with the summary columns needed by the history command and the
// full result as JSON.
package database
