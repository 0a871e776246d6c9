package report

import (
	"net/url"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// TimestampLayout formats the timestamp part of an artifact stem.
	TimestampLayout = "20060102_150405"

	// RawDirName is the subdirectory holding raw HTML captures.
	RawDirName = "html"

	// LinksSuffix is appended to the stem of a link index file.
	LinksSuffix = "_links"

	// fallbackSlug is used when a host transliterates to nothing.
	fallbackSlug = "site"
)

// Slug turns a host into a filesystem-safe name: punycode is decoded,
// accents are stripped, the result is lowercased and every run of
// characters outside [a-z0-9] becomes a single '-'.
//
//	Slug("openai.github.io")  // "openai-github-io"
//	Slug("xn--mnchen-3ya.de") // "munchen-de"
func Slug(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if decoded, err := idna.ToUnicode(h); err == nil {
		h = decoded
	}

	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if plain, _, err := transform.String(stripMarks, h); err == nil {
		h = plain
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// Stem returns the artifact stem {slug}_{timestamp} for a crawl of rawURL
// started at t.
func Stem(rawURL string, t time.Time) string {
	host := ""
	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		host = u.Host
	}
	return Slug(host) + "_" + t.Format(TimestampLayout)
}

// PrimaryName returns the file name of the primary document.
func PrimaryName(stem string) string {
	return stem + ".md"
}

// RawName returns the file name of the raw HTML capture.
func RawName(stem string) string {
	return stem + ".html"
}

// LinksName returns the file name of the link index.
func LinksName(stem string) string {
	return stem + LinksSuffix + ".json"
}
