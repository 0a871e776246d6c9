package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/siteanalyzer/internal/model"
)

// LinkIndex is the content of a {stem}_links.json file.
type LinkIndex struct {
	URL           string                `json:"url"`
	TotalLinks    int                   `json:"total_links"`
	InternalLinks int                   `json:"internal_links"`
	ExternalLinks int                   `json:"external_links"`
	Links         []model.ExtractedLink `json:"links"`
}

// NewLinkIndex builds the link index of the page at url.
func NewLinkIndex(url string, links []model.ExtractedLink) *LinkIndex {
	internal, external := model.CountLinks(links)
	if links == nil {
		links = []model.ExtractedLink{}
	}
	return &LinkIndex{
		URL:           url,
		TotalLinks:    len(links),
		InternalLinks: internal,
		ExternalLinks: external,
		Links:         links,
	}
}

// JSONWriter writes link indexes as JSON.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that writes compact JSON to output
// unless an indent option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes index followed by a newline.
func (w *JSONWriter) Write(index *LinkIndex) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(index, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(index)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// ReadLinkIndex decodes a link index.
func ReadLinkIndex(r io.Reader) (*LinkIndex, error) {
	var index LinkIndex
	if err := json.NewDecoder(r).Decode(&index); err != nil {
		return nil, err
	}
	return &index, nil
}
