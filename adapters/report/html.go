package report

import (
	"io"

	"dsemotion/domain/run"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const FormatHTML = "html"

// HTML renders the Markdown report as a standalone page.
type HTML struct{}

func (HTML) Format() string      { return FormatHTML }
func (HTML) ContentType() string { return "text/html; charset=utf-8" }

func (HTML) Write(w io.Writer, r *run.Run) error {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Emotion classification: " + r.Source,
		Flags: html.CommonFlags | html.CompletePage,
	})
	_, err := w.Write(markdown.ToHTML(renderMarkdown(r), p, renderer))
	return err
}
