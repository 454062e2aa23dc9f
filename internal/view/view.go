// Package view renders the site's HTML pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

//go:embed static
var static embed.FS

// SiteName is appended to every page title.
const SiteName = "Art House Theaters"

// Page is the value every template receives. Body carries the
// page-specific data.
type Page struct {
	Title       string
	Description string
	Body        any
}

// layoutPages share templates/layout.html; standalone pages carry their
// own document.
var (
	layoutPages     = []string{"home", "city", "search", "theater", "theaters", "error"}
	standalonePages = []string{"coming_soon", "review"}
)

var funcs = template.FuncMap{
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
	"pathEscape": url.PathEscape,
	"year":       func() int { return time.Now().Year() },
}

// Renderer implements echo.Renderer over a fixed set of named pages.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page template.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range layoutPages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(files,
			"templates/layout.html", "templates/partials.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	for _, name := range standalonePages {
		t, err := template.New(name+".html").Funcs(funcs).ParseFS(files, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustNew is New for program start-up.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.Execute(w, data)
}

// Static is the stylesheet tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Title formats a page title with the site name suffix.
func Title(prefix string) string {
	if prefix == "" {
		return SiteName
	}
	return prefix + " | " + SiteName
}
