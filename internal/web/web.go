package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageHome       = "home"
	PageAudioToPDF = "audio_to_pdf"
	PageCallback   = "callback"
)

var pages = []string{PageHome, PageAudioToPDF, PageCallback}

var funcs = template.FuncMap{
	"bytes": func(n int64) string {
		return humanize.IBytes(uint64(n))
	},
}

// Renderer executes the embedded pages, each inside the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", page, err)
		}

		if _, err := tmpl.ParseFS(templateFS, "templates/"+page+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}

	return r, nil
}

func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page: %s", page)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// StaticHandler serves the embedded stylesheet. Mount it under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
