package vanilla

import (
	"fmt"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

// control is the view model a field partial receives.
type control struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	InputType   string          `json:"input_type"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder,omitempty"`
	Description string          `json:"description,omitempty"`
	Value       string          `json:"value"`
	MaxLength   string          `json:"max_length,omitempty"`
	Required    bool            `json:"required"`
	Disabled    bool            `json:"disabled"`
	Autofocus   bool            `json:"autofocus"`
	AllowNew    bool            `json:"allow_new"`
	ComponentID string          `json:"component_id,omitempty"`
	Options     []controlOption `json:"options,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

type controlOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type renderedField struct {
	control
	HTML string `json:"html"`
}

type rendererTheme struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"css_vars_style,omitempty"`
}

func newControl(field model.Field, options render.RenderOptions) control {
	ctrl := control{
		ID:          componentControlID(field.Name),
		Name:        field.Name,
		InputType:   defaultString(field.UIHint("inputType"), "text"),
		Label:       defaultString(field.Label, field.Name),
		Placeholder: field.Placeholder,
		Description: field.Description,
		Value:       fieldValue(field, options.Values),
		Required:    field.Required,
		Disabled:    field.Disabled,
		Autofocus:   field.UIHint("autofocus") == "true",
		AllowNew:    field.UIHint("allowNewItems") == "true",
		ComponentID: field.UIHint("componentId"),
		Errors:      render.MergeFormErrors(options.Errors[field.Name]),
	}
	if limit := field.MaxLength(); limit > 0 {
		ctrl.MaxLength = strconv.Itoa(limit)
	}
	for _, option := range field.Options {
		ctrl.Options = append(ctrl.Options, controlOption{
			Value:    option.Value,
			Label:    defaultString(option.Label, option.Value),
			Selected: option.Value == ctrl.Value,
		})
	}
	return ctrl
}

func fieldValue(field model.Field, values map[string]any) string {
	if value, ok := values[field.Name]; ok && value != nil {
		return fmt.Sprint(value)
	}
	if field.Default != nil {
		return fmt.Sprint(field.Default)
	}
	return ""
}

func componentControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "swm-" + trimmed
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	return rendererTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
}

func cloneForm(form model.FormModel) model.FormModel {
	out := form
	out.UIHints = cloneStringMap(form.UIHints)
	out.Fields = make([]model.Field, len(form.Fields))
	for i, field := range form.Fields {
		field.UIHints = cloneStringMap(field.UIHints)
		field.Options = append([]model.Option(nil), field.Options...)
		out.Fields[i] = field
	}
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
