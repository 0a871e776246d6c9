package fetcher

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// absoluteAttrs lists the attributes resolved against the page URL before
// conversion.
var absoluteAttrs = map[string]string{
	"a[href]":  "href",
	"img[src]": "src",
}

// toMarkdown converts a rendered page to markdown. Relative links in the
// output are made absolute against pageURL, keeping its scheme.
func toMarkdown(pageURL, html string) (string, error) {
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || base.Host == "" {
		base = nil
	}

	domain := ""
	if base != nil {
		domain = base.Host
		if html, err = resolveLinks(base, html); err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", pageURL, err)
		}
	}

	converter := md.NewConverter(domain, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert %s to markdown: %w", pageURL, err)
	}
	return markdown, nil
}

// resolveLinks rewrites relative link and image references of html against
// base. The converter alone would assume http for every relative link.
func resolveLinks(base *url.URL, html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for selector, attr := range absoluteAttrs {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			ref := strings.TrimSpace(s.AttrOr(attr, ""))
			if ref == "" || strings.HasPrefix(ref, "#") {
				return
			}
			u, err := url.Parse(ref)
			if err != nil || u.IsAbs() {
				return
			}
			s.SetAttr(attr, base.ResolveReference(u).String())
		})
	}

	return doc.Html()
}
