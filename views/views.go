// views/views.go
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/chenyinghua/firework-shop/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer projects catalog and cart state into HTML. Every render pass
// rebuilds the full grid and cart panel from the data it is given.
type Renderer struct {
	tmpl *template.Template
}

// StorefrontData is everything the storefront page needs for one render.
type StorefrontData struct {
	Products  []models.Product
	CartLines []models.CartLine
	CartCount int
	CartTotal float64
	Query     string
	Sort      string
	LoadError string
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("views").Funcs(template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"price": func(v float64) string {
			if v == float64(int64(v)) {
				return fmt.Sprintf("%d", int64(v))
			}
			return fmt.Sprintf("%g", v)
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Storefront renders the shop page.
func (r *Renderer) Storefront(w io.Writer, data StorefrontData) error {
	return r.tmpl.ExecuteTemplate(w, "storefront.html", data)
}

// OrderSheet renders the printable order sheet document.
func (r *Renderer) OrderSheet(w io.Writer, sheet models.OrderSheet) error {
	return r.tmpl.ExecuteTemplate(w, "order_sheet.html", sheet)
}

// OrderSheetHTML renders the sheet to a string for the snapshot renderer.
func (r *Renderer) OrderSheetHTML(sheet models.OrderSheet) (string, error) {
	var buf bytes.Buffer
	if err := r.OrderSheet(&buf, sheet); err != nil {
		return "", fmt.Errorf("failed to render order sheet: %w", err)
	}
	return buf.String(), nil
}

// SortedCartLines orders cart lines by product name for display, with the
// product id as a tiebreaker so equal names render deterministically.
func SortedCartLines(lines map[string]models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
