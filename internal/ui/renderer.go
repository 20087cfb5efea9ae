package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the page templates
type Renderer struct {
	loc   *Localization
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout
func NewRenderer(loc *Localization) (*Renderer, error) {
	r := &Renderer{loc: loc, pages: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageInspect, PageAnalysis} {
		tmpl, err := template.New(page).Funcs(funcMap()).ParseFS(templateFS,
			"templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// NewPage starts a page in the language resolved from lang and the
// Accept-Language header
func (r *Renderer) NewPage(lang, acceptLanguage string) *Page {
	return &Page{Lang: r.loc.Resolve(lang, acceptLanguage), loc: r.loc}
}

// Localization returns the catalog pages are translated with
func (r *Renderer) Localization() *Localization {
	return r.loc
}

// Render writes the named page. Output is buffered so a failing template
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, p *Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"dash": func(s string) string {
			if s == "" {
				return DashPlaceholder
			}
			return s
		},
	}
}
