package template

import "io"

// TemplateRenderer renders named or inline templates. Output is returned and
// also streamed to any supplied writers.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
