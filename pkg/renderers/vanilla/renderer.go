package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
	rendertemplate "github.com/goliatone/go-swmodule/pkg/render/template"
	"github.com/goliatone/go-swmodule/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	page             bool
	stylesheetURL    string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPage wraps the dialog in a complete HTML document.
func WithPage(enabled bool) Option {
	return func(cfg *config) {
		cfg.page = enabled
	}
}

// WithStylesheetURL links an external stylesheet instead of inlining the
// embedded one.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		cfg.stylesheetURL = strings.TrimSpace(url)
	}
}

// Renderer renders the dialog form as HTML.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	page          bool
	stylesheetURL string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		page:          cfg.page,
		stylesheetURL: cfg.stylesheetURL,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render localizes a copy of the form, renders every field through its
// partial and wraps the result in the dialog template.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	form = cloneForm(form)
	render.LocalizeFormModel(&form, options)

	partials := DefaultPartials()
	if options.Theme != nil {
		for key, value := range options.Theme.Partials {
			partials[key] = value
		}
	}

	fields := make([]renderedField, 0, len(form.Fields))
	for _, field := range form.Fields {
		ctrl := newControl(field, options)
		partial := partials[partialFor(field)]
		html, err := r.templates.RenderTemplate(partial, map[string]any{"control": ctrl})
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: render field %q: %w", field.Name, err)
		}
		fields = append(fields, renderedField{control: ctrl, HTML: html})
	}

	action := options.Action
	if action == "" {
		action = form.Endpoint
	}

	result, err := r.templates.RenderTemplate(partials[PartialDialog], map[string]any{
		"page":        r.page,
		"locale":      options.Locale,
		"title":       form.UIHints["layout.title"],
		"operation":   form.OperationID,
		"action":      action,
		"cancel":      options.CancelURL,
		"method":      strings.ToLower(defaultString(form.Method, "post")),
		"fields":      fields,
		"hidden":      render.SortedHiddenFields(options.HiddenFields),
		"form_errors": render.MergeFormErrors(options.FormErrors),
		"flash":       options.Flash,
		"theme":       buildThemeContext(options.Theme),
		"stylesheet":  r.stylesheet(options),
		"inline_css":  r.inlineStylesheet(options),
		"translate":   render.TemplateI18nFuncs(options.Translator, render.TemplateI18nConfig{OnMissing: options.OnMissing})["translate"],
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) stylesheet(options render.RenderOptions) string {
	if options.Theme != nil && options.Theme.AssetURL != nil {
		if url := options.Theme.AssetURL("vanilla.stylesheet"); url != "" {
			return url
		}
	}
	return r.stylesheetURL
}

func (r *Renderer) inlineStylesheet(options render.RenderOptions) string {
	if r.stylesheet(options) != "" {
		return ""
	}
	return defaultStylesheet()
}

func partialFor(field model.Field) string {
	switch strings.ToLower(field.UIHint("widget")) {
	case "select":
		return PartialSelect
	case "textarea":
		return PartialTextarea
	case "input", "text":
		return PartialInput
	}
	if len(field.Options) > 0 {
		return PartialSelect
	}
	return PartialInput
}
