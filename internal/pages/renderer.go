// Package pages renders the server side HTML: entity landings, listings,
// static pages, the app handoff page and error pages.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/serroba/clubin-web/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageDetail  = "detail"
	pageListing = "listing"
	pageHandoff = "handoff"
	pageError   = "error"
	pageStatic  = "static"
)

var funcs = template.FuncMap{
	"jsonld": func(s string) template.JS {
		// input comes from json.Marshal, which escapes <, > and &
		return template.JS(s)
	},
	"formatDate": catalog.FormatDate,
	"formatTime": catalog.FormatTime,
	"contact":    func() string { return ContactEmail },
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all page templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, name := range []string{pageDetail, pageListing, pageHandoff, pageError, pageStatic} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/cards.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}

		r.pages[name] = tmpl
	}

	return r, nil
}

// Detail renders an entity page.
func (r *Renderer) Detail(data *Detail) ([]byte, error) {
	return r.render(pageDetail, data)
}

// Listing renders a list of cards.
func (r *Renderer) Listing(data *Listing) ([]byte, error) {
	return r.render(pageListing, data)
}

// Handoff renders the page that tries to open the app.
func (r *Renderer) Handoff(data *Handoff) ([]byte, error) {
	return r.render(pageHandoff, data)
}

// Error renders a single message with a retry link.
func (r *Renderer) Error(data *ErrorPage) ([]byte, error) {
	return r.render(pageError, data)
}

// Static renders a fixed page.
func (r *Renderer) Static(data *Static) ([]byte, error) {
	return r.render(pageStatic, data)
}

func (r *Renderer) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}

	return buf.Bytes(), nil
}
