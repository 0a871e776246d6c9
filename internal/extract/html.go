package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/siteanalyzer/internal/model"
)

// Document is a parsed HTML page. Parse once, then query the signals
// needed for the page.
type Document struct {
	doc *goquery.Document
}

// Parse parses raw HTML into a Document. It never fails: input the HTML5
// parser cannot make sense of yields an empty document.
func Parse(raw string) *Document {
	node, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		node = &html.Node{Type: html.DocumentNode}
	}
	return &Document{doc: goquery.NewDocumentFromNode(node)}
}

// Metadata extracts title, description, keywords and Open Graph values
// from raw HTML.
func Metadata(raw string) model.PageMetadata {
	return Parse(raw).Metadata()
}

// Links extracts the hyperlinks of raw HTML resolved against baseURL.
func Links(raw, baseURL string) []model.ExtractedLink {
	return Parse(raw).Links(baseURL)
}

// Metadata returns the page metadata. Keys with empty values are never
// emitted and the first occurrence of a key wins.
func (d *Document) Metadata() model.PageMetadata {
	meta := model.PageMetadata{}

	if title := strings.TrimSpace(d.doc.Find("title").First().Text()); title != "" {
		meta[model.MetaTitle] = title
	}

	d.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}

		switch name := strings.ToLower(strings.TrimSpace(s.AttrOr("name", ""))); name {
		case model.MetaDescription, model.MetaKeywords:
			setOnce(meta, name, content)
		}

		property := strings.TrimSpace(s.AttrOr("property", ""))
		if len(property) > len(model.OpenGraphPrefix) &&
			strings.EqualFold(property[:len(model.OpenGraphPrefix)], model.OpenGraphPrefix) {
			setOnce(meta, model.OpenGraphPrefix+property[len(model.OpenGraphPrefix):], content)
		}
	})

	return meta
}

func setOnce(meta model.PageMetadata, key, value string) {
	if _, ok := meta[key]; !ok {
		meta[key] = value
	}
}

// Links returns the anchors of the page in document order, resolved
// against baseURL. Anchors whose href is empty, starts with "javascript:"
// or starts with "#" are skipped, as are hrefs that do not parse.
// An unparsable baseURL yields no links.
func (d *Document) Links(baseURL string) []model.ExtractedLink {
	links := []model.ExtractedLink{}

	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return links
	}

	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if skipHref(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)

		domain := resolved.Host
		if domain == "" {
			domain = base.Host
		}

		links = append(links, model.ExtractedLink{
			URL:        resolved.String(),
			Text:       collapseSpace(s.Text()),
			IsInternal: resolved.Host == "" || strings.EqualFold(resolved.Host, base.Host),
			Domain:     domain,
			Path:       resolved.Path,
		})
	})

	return links
}

func skipHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	const js = "javascript:"
	return len(href) >= len(js) && strings.EqualFold(href[:len(js)], js)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
