// Package render turns page view models into HTML using the embedded
// templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/page"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Every page set shares the layout and partials.
var shared = []string{
	"templates/layout.tmpl",
	"templates/toast.tmpl",
}

var pageSets = map[string][]string{
	"product": {
		"templates/product.tmpl",
		"templates/carousel.tmpl",
		"templates/sizes.tmpl",
		"templates/related.tmpl",
	},
	"error": {
		"templates/error.tmpl",
	},
}

// Renderer executes the page templates. It is safe for concurrent use.
type Renderer struct {
	pages    map[string]*template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{
		pages:    make(map[string]*template.Template, len(pageSets)),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}

	funcs := template.FuncMap{
		"money":    func(m domain.Money) string { return m.String() },
		"markdown": r.Markdown,
	}
	for name, files := range pageSets {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, append(append([]string{}, shared...), files...)...)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

type layoutData struct {
	Title string
	Page  any
}

// Product renders the product-detail page for v.
func (r *Renderer) Product(w io.Writer, v page.View) error {
	return r.execute(w, "product", layoutData{Title: v.Product.Name, Page: v})
}

// ErrorView is the data behind the error page.
type ErrorView struct {
	Status  int
	Heading string
	Message string
}

// Error renders the error page for status. message is shown to visitors,
// so it must not carry internal details.
func (r *Renderer) Error(w io.Writer, status int, message string) error {
	v := ErrorView{Status: status, Heading: http.StatusText(status), Message: message}
	if status == http.StatusNotFound {
		v.Heading = "Page not found"
	}
	return r.execute(w, "error", layoutData{Title: v.Heading, Page: v})
}

// execute renders into a buffer first so a failing template never leaves
// a half-written page behind.
func (r *Renderer) execute(w io.Writer, name string, data layoutData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("execute %s template: %w", name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write %s page: %w", name, err)
	}
	return nil
}

// Markdown converts CMS rich text to sanitised HTML.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}
