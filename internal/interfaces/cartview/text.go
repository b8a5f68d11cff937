package cartview

import (
	"io"
	"text/template"
)

var textTemplate = template.Must(template.New("cart").Parse(
	`Cart ({{.Count}})
{{- if .Empty}}
  ` + EmptyMessage + `
{{- else}}
{{- range .Items}}
  [{{.ID}}] {{.Name}}  {{.Price}}  [-] {{.Quantity}} [+]  [×]
{{- end}}
Total: {{.Total}}
{{- end}}
`))

// TextRenderer draws views as plain text
type TextRenderer struct {
	out io.Writer
}

// NewTextRenderer creates a renderer writing to out
func NewTextRenderer(out io.Writer) *TextRenderer {
	return &TextRenderer{out: out}
}

// Render writes the view
func (r *TextRenderer) Render(view View) error {
	return textTemplate.Execute(r.out, view)
}
