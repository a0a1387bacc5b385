package api

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

// templateRenderer renders each page inside the shared layout.
type templateRenderer struct {
	pages map[string]*template.Template
}

func newTemplateRenderer() (*templateRenderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &templateRenderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutTemplate {
			continue
		}
		tmpl, err := template.ParseFS(templateFS, layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[path.Base(file)] = tmpl
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
