package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns post markdown into HTML for the edit form preview.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.DefinitionList,
			extension.Footnote, extension.Typographer,
			highlighting.Highlighting),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// no html.WithUnsafe(): raw HTML in posts is omitted from the output
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()))

	return &Renderer{md: md}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
