package app

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Title and Subtitle head every page.
const (
	Title    = "PARK LOCATOR"
	Subtitle = "A Page Where You Can Locate Parks..."
)

var Template = `<!DOCTYPE html>
<html>
  <head>
    <title>%s | Park Locator</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <meta name="description" content="%s">
    <meta name="referrer" content="no-referrer"/>
  </head>
  <body>
    <div id="head">
      <a href="/">Parks</a>
      <a href="/api">API</a>
      <a href="/status">Status</a>
    </div>
    <div id="content">%s</div>
  </body>
</html>
`

// Render a markdown document as html
func Render(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := mdhtml.CommonFlags | mdhtml.HrefTargetBlank
	opts := mdhtml.RendererOptions{Flags: htmlFlags}
	renderer := mdhtml.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}

// RenderHTML wraps body in the page template
func RenderHTML(title, desc, body string) string {
	return fmt.Sprintf(Template, html.EscapeString(title), html.EscapeString(desc), body)
}

// ServeHTML serves a fixed, pre-rendered page
func ServeHTML(page string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	})
}
