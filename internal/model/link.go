package model

import (
	"sort"
	"strings"
)

// ExtractedLink is a hyperlink found in a page, resolved against the page
// URL and classified relative to the page host.
type ExtractedLink struct {
	// URL is the absolute, resolved link target.
	URL string `json:"url"`

	// Text is the anchor text with whitespace collapsed. It may be empty.
	Text string `json:"text"`

	// IsInternal is true when the link host equals the base host or the
	// link carries no host at all.
	IsInternal bool `json:"is_internal"`

	// Domain is the link host, or the base host when the link has none.
	Domain string `json:"domain"`

	// Path is the path component of the resolved URL.
	Path string `json:"path"`
}

// Label returns the anchor text, falling back to the URL.
func (l ExtractedLink) Label() string {
	if l.Text != "" {
		return l.Text
	}
	return l.URL
}

// SplitLinks partitions links into internal and external, keeping order.
func SplitLinks(links []ExtractedLink) (internal, external []ExtractedLink) {
	for _, l := range links {
		if l.IsInternal {
			internal = append(internal, l)
		} else {
			external = append(external, l)
		}
	}
	return internal, external
}

// CountLinks returns the number of internal and external links.
func CountLinks(links []ExtractedLink) (internal, external int) {
	for _, l := range links {
		if l.IsInternal {
			internal++
		} else {
			external++
		}
	}
	return internal, external
}

// Well-known metadata keys.
const (
	MetaTitle       = "title"
	MetaDescription = "description"
	MetaKeywords    = "keywords"

	// OpenGraphPrefix prefixes every Open Graph key, e.g. "og:image".
	OpenGraphPrefix = "og:"
)

// PageMetadata maps metadata keys to values. Keys are unique per page.
type PageMetadata map[string]string

// Keys returns the keys in a stable order: title, description, keywords,
// then every other key sorted.
func (m PageMetadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, k := range []string{MetaTitle, MetaDescription, MetaKeywords} {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}

	rest := make([]string, 0, len(m))
	for k := range m {
		switch k {
		case MetaTitle, MetaDescription, MetaKeywords:
			continue
		}
		rest = append(rest, k)
	}
	sort.Slice(rest, func(i, j int) bool {
		// og:* keys sort after anything else that is not well-known.
		oi, oj := strings.HasPrefix(rest[i], OpenGraphPrefix), strings.HasPrefix(rest[j], OpenGraphPrefix)
		if oi != oj {
			return !oi
		}
		return rest[i] < rest[j]
	})
	return append(keys, rest...)
}
