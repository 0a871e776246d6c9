package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultTitle is returned by Title when the markdown has no heading.
const DefaultTitle = "Website Content"

// markdownParser is safe for concurrent use; goldmark parsers hold no
// per-document state.
var markdownParser = goldmark.New().Parser()

// Title returns the text of the first level-1 heading in markdown. When
// there is none it returns the first heading of any level, and when there
// is no heading at all it returns DefaultTitle.
func Title(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return DefaultTitle
	}

	src := []byte(markdown)
	root := markdownParser.Parse(text.NewReader(src))

	var first, h1 string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) { //nolint:errcheck // walker never returns an error
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		title := headingText(heading, src)
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		if heading.Level == 1 {
			h1 = title
			return ast.WalkStop, nil
		}
		if first == "" {
			first = title
		}
		return ast.WalkSkipChildren, nil
	})

	switch {
	case h1 != "":
		return h1
	case first != "":
		return first
	default:
		return DefaultTitle
	}
}

// headingText returns the raw source text of a heading, without the
// leading and closing '#' markers.
func headingText(h *ast.Heading, src []byte) string {
	var buf bytes.Buffer
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSpace(buf.String())
}
