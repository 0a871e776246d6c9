// Package config provides the configuration of siteanalyzer: defaults,
// validation, XDG directories and the optional YAML file with per-host
// crawl overrides.
package config
