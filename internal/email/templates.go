package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/phrazzld/console-api/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// lineBreak is the only markup kept from user-supplied text.
const lineBreak = "<br />"

var templateFuncs = template.FuncMap{
	// breaks escapes s and restores the line breaks inserted upstream.
	"breaks": func(s string) template.HTML {
		escaped := template.HTMLEscapeString(s)
		return template.HTML(strings.ReplaceAll(escaped, template.HTMLEscapeString(lineBreak), lineBreak))
	},
}

// Renderer executes the embedded notification templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("email").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse e-mail templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the named template with params.
func (r *Renderer) Render(name domain.EmailTemplate, params map[string]any) (string, error) {
	t := r.templates.Lookup(string(name))
	if t == nil {
		return "", fmt.Errorf("unknown e-mail template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("failed to render e-mail template %q: %w", name, err)
	}
	return buf.String(), nil
}
