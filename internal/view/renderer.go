package view

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"
	"os"

	"github.com/cookme/web/internal/domain"
	"github.com/pkg/errors"
)

const pageTemplate = "cookme.html"

//go:embed templates/cookme.html
var defaultTemplate string

// Renderer renders the recipe page. It is parsed once and safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the page template from path, or the embedded template when path is empty
func NewRenderer(path string) (*Renderer, error) {
	text := defaultTemplate
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read template %s", path)
		}
		text = string(b)
	}

	tmpl, err := template.New(pageTemplate).Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse page template")
	}

	return &Renderer{tmpl: tmpl}, nil
}

// RenderRecipes writes the page for tag and recipes to w. Nothing is written
// when rendering fails.
func (r *Renderer) RenderRecipes(w io.Writer, tag string, recipes []domain.Recipe) error {
	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, map[string]interface{}{
		"tagname": tag,
		"recipes": recipes,
	}); err != nil {
		return errors.Wrap(err, "could not render recipe page")
	}

	_, err := buf.WriteTo(w)
	return errors.Wrap(err, "could not write recipe page")
}
