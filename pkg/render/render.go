// Package render turns panel collections into HTML.
//
// Templates are parsed once from the embedded templates directory. All user
// text goes through html/template, so titles, captions and URLs are escaped
// (and URLs sanitized) by construction.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/aretw0/pph/pkg/core"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet and scripts served next to the page.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"lines": func(s string) []string {
		if s == "" {
			return nil
		}
		return strings.Split(s, "\n")
	},
	"imgsrc": imageSource,
}

// rasterDataPrefixes are the data: URL types accepted as image sources.
// SVG is left out since it can carry script.
var rasterDataPrefixes = []string{
	"data:image/png;base64,",
	"data:image/jpeg;base64,",
	"data:image/jpg;base64,",
	"data:image/gif;base64,",
	"data:image/webp;base64,",
	"data:image/avif;base64,",
	"data:image/bmp;base64,",
}

// imageSource lets base64 raster data URLs through unchanged. Anything else
// goes through html/template's URL sanitizer, which rewrites other data:
// URLs to a harmless placeholder.
func imageSource(src string) any {
	lower := strings.ToLower(src)
	for _, prefix := range rasterDataPrefixes {
		if strings.HasPrefix(lower, prefix) && !strings.ContainsAny(src[len(prefix):], "\"'<> ") {
			return template.URL(src)
		}
	}
	return src
}

// Renderer executes the panel and page templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("pph").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew is like New but panics on a template error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	// Output of html/template is already escaped.
	return template.HTML(buf.String()), nil
}

// Todos renders the to-do list.
func (r *Renderer) Todos(items []core.Todo) (template.HTML, error) {
	return r.fragment("todos", items)
}

// Notes renders the note cards. Empty titles show as "Untitled" and content
// newlines become line breaks.
func (r *Renderer) Notes(items []core.Note) (template.HTML, error) {
	return r.fragment("notes", items)
}

// Links renders the bookmark list.
func (r *Renderer) Links(items []core.Link) (template.HTML, error) {
	return r.fragment("links", items)
}

// Images renders the image grid. A missing caption yields alt="Image".
func (r *Renderer) Images(items []core.Image) (template.HTML, error) {
	return r.fragment("images", items)
}

// Panels holds one rendered fragment per panel.
type Panels struct {
	Todos  template.HTML
	Notes  template.HTML
	Links  template.HTML
	Images template.HTML
}

// Get returns the fragment of kind.
func (p Panels) Get(kind core.Kind) template.HTML {
	switch kind {
	case core.KindTodos:
		return p.Todos
	case core.KindNotes:
		return p.Notes
	case core.KindLinks:
		return p.Links
	case core.KindImages:
		return p.Images
	}
	return ""
}

// Set replaces the fragment of kind.
func (p *Panels) Set(kind core.Kind, html template.HTML) {
	switch kind {
	case core.KindTodos:
		p.Todos = html
	case core.KindNotes:
		p.Notes = html
	case core.KindLinks:
		p.Links = html
	case core.KindImages:
		p.Images = html
	}
}

// Tab is one entry of the tab bar.
type Tab struct {
	Kind   core.Kind
	Label  string
	Active bool
}

var tabLabels = map[core.Kind]string{
	core.KindTodos:  "To-Do",
	core.KindNotes:  "Notes",
	core.KindLinks:  "Links",
	core.KindImages: "Images",
}

// Page is everything the full document shows.
type Page struct {
	Theme     core.Theme
	Glyph     string
	ActiveTab core.Kind
	Avatar    string
	Editing   *core.Note // pre-fills the note editor
	Panels    Panels
}

// Tabs lists the tab bar with exactly one active entry.
func (p Page) Tabs() []Tab {
	active := p.ActiveTab
	if _, err := core.ParseKind(string(active)); err != nil {
		active = core.Kinds[0]
	}
	tabs := make([]Tab, 0, len(core.Kinds))
	for _, k := range core.Kinds {
		tabs = append(tabs, Tab{Kind: k, Label: tabLabels[k], Active: k == active})
	}
	return tabs
}

// Page writes the full document to w.
func (r *Renderer) Page(w io.Writer, p Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
