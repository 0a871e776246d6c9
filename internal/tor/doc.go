// Package tor routes crawl traffic through the Tor network.
//
// A Client wraps a SOCKS5 proxy address. It can verify that the proxy
// speaks SOCKS5 and builds HTTP clients that dial through it. The result
// plugs into fetcher.WithHTTPClient, and ProxyURL feeds the browser
// renderer.
//
// EmbeddedTor starts a private Tor daemon through tornago when no external
// Tor instance is available.
package tor
