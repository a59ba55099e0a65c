// Package view plugs html/template into echo's Renderer interface.  Every
// page template is parsed together with the shared base layout at startup;
// a missing template is a programming error and fails the first render.
package view

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Renderer satisfies echo.Renderer using a single parsed template set.
type Renderer struct {
	templates *template.Template
}

// New parses every template matching the glob (e.g. "web/templates/*.html")
// and returns a Renderer ready to be assigned to echo's Renderer field.
func New(glob string) (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"money": formatMoney,
		"lineTotal": func(qty int, price float64) float64 {
			return float64(qty) * price
		},
		// iter gives range a fixed number of repetitions, used for the
		// blank item rows on the add-visit form.
		"iter": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
	}).ParseGlob(glob)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render writes the named template with the given data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
