package config

import (
	"strings"
	"time"

	"github.com/nao1215/siteanalyzer/internal/model"
)

// SiteConfig holds crawl overrides for a single host.
// Zero values and nil pointers mean "not set".
type SiteConfig struct {
	// Cookie is an HTTP cookie to send to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the session user agent.
	UserAgent string `yaml:"user_agent,omitempty"`

	// MaxPages overrides the page limit.
	MaxPages int `yaml:"max_pages,omitempty"`

	// Depth overrides the depth limit.
	Depth int `yaml:"depth,omitempty"`

	// CrawlDelay overrides the crawl delay, e.g. "2s".
	CrawlDelay time.Duration `yaml:"crawl_delay,omitempty"`

	FollowLinks    *bool `yaml:"follow_links,omitempty"`
	SameDomainOnly *bool `yaml:"same_domain_only,omitempty"`
	SaveHTML       *bool `yaml:"save_html,omitempty"`
}

// File represents the structure of the .siteanalyzer.yaml configuration
// file.
type File struct {
	// Sites maps hosts to their configuration. Keys are hosts without
	// scheme, e.g. "docs.example.com" or "localhost:8080".
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults is applied to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[strings.ToLower(host)]
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	if siteConfig.MaxPages != 0 {
		result.MaxPages = siteConfig.MaxPages
	}
	if siteConfig.Depth != 0 {
		result.Depth = siteConfig.Depth
	}
	if siteConfig.CrawlDelay != 0 {
		result.CrawlDelay = siteConfig.CrawlDelay
	}
	if siteConfig.FollowLinks != nil {
		result.FollowLinks = siteConfig.FollowLinks
	}
	if siteConfig.SameDomainOnly != nil {
		result.SameDomainOnly = siteConfig.SameDomainOnly
	}
	if siteConfig.SaveHTML != nil {
		result.SaveHTML = siteConfig.SaveHTML
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}

	return result
}

// Apply writes the values set in sc onto target and options.
func (sc SiteConfig) Apply(target *model.CrawlTarget, options *model.FetchOptions) {
	if sc.MaxPages != 0 {
		target.MaxPages = sc.MaxPages
	}
	if sc.Depth != 0 {
		target.MaxDepth = sc.Depth
	}
	if sc.FollowLinks != nil {
		target.FollowLinks = *sc.FollowLinks
	}
	if sc.SameDomainOnly != nil {
		target.SameDomainOnly = *sc.SameDomainOnly
	}

	if sc.Cookie != "" {
		options.Cookie = sc.Cookie
	}
	if sc.UserAgent != "" {
		options.UserAgent = sc.UserAgent
	}
	if sc.CrawlDelay != 0 {
		options.CrawlDelay = sc.CrawlDelay
	}
	if sc.SaveHTML != nil {
		options.SaveRawCapture = *sc.SaveHTML
	}
	if len(sc.Headers) > 0 {
		headers := make(map[string]string, len(options.Headers)+len(sc.Headers))
		for k, v := range options.Headers {
			headers[k] = v
		}
		for k, v := range sc.Headers {
			headers[k] = v
		}
		options.Headers = headers
	}
}
