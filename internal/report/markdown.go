package report

import (
	"io"
	"time"

	"github.com/nao1215/markdown"

	"github.com/nao1215/siteanalyzer/internal/model"
)

// Document is everything needed to render the artifacts of one crawl.
type Document struct {
	// Stem is the shared {slug}_{timestamp} file name stem.
	Stem string

	// URL is the crawled root URL.
	URL string

	// Title heads the primary document.
	Title string

	// CrawledAt is printed in the document header.
	CrawledAt time.Time

	// Metadata and Links are the root page signals.
	Metadata model.PageMetadata
	Links    []model.ExtractedLink

	// Content is the markdown body of every crawled page.
	Content string

	// RawHTML is the root page HTML.
	RawHTML string

	// SaveRawCapture requests the raw HTML artifact.
	SaveRawCapture bool

	// SaveLinks requests the links section and the link index artifact.
	SaveLinks bool
}

// MarkdownWriter renders the primary document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that writes to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders doc. Sections appear in fixed order: header, metadata
// (when present), links (when present and requested), content.
func (w *MarkdownWriter) Write(doc *Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeMetadata(md, doc.Metadata)
	if doc.SaveLinks {
		w.writeLinks(md, doc.Links)
	}
	w.writeContent(md, doc.Content)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc *Document) {
	md.H1(doc.Title)
	md.PlainText("")
	md.PlainTextf("URL: %s", doc.URL)
	md.PlainTextf("Crawled: %s", doc.CrawledAt.Format(time.RFC3339))
	md.PlainText("")
}

func (w *MarkdownWriter) writeMetadata(md *markdown.Markdown, meta model.PageMetadata) {
	if len(meta) == 0 {
		return
	}

	items := make([]string, 0, len(meta))
	for _, key := range meta.Keys() {
		items = append(items, markdown.Bold(key)+": "+meta[key])
	}

	md.H2("Metadata")
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
	md.HorizontalRule()
	md.PlainText("")
}

func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, links []model.ExtractedLink) {
	if len(links) == 0 {
		return
	}

	internal, external := model.SplitLinks(links)

	md.H2("Links")
	md.PlainText("")

	if len(internal) > 0 {
		items := make([]string, 0, len(internal))
		for _, l := range internal {
			items = append(items, markdown.Link(l.Label(), l.URL))
		}
		md.H3("Internal Links")
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}

	if len(external) > 0 {
		items := make([]string, 0, len(external))
		for _, l := range external {
			items = append(items, markdown.Link(l.Label(), l.URL)+" - "+l.Domain)
		}
		md.H3("External Links")
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
}

func (w *MarkdownWriter) writeContent(md *markdown.Markdown, content string) {
	md.H2("Content")
	md.PlainText("")
	md.PlainText(content)
}
