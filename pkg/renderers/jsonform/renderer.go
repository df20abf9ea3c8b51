// Package jsonform renders the dialog form as a JSON document for script
// clients negotiating application/json.
package jsonform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

// Renderer emits the localized form model together with the per-request
// values, errors and hidden fields.
type Renderer struct {
	indent string
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithIndent pretty prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) { r.indent = indent }
}

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var _ render.Renderer = (*Renderer)(nil)

func (r *Renderer) Name() string { return "json" }

func (r *Renderer) ContentType() string { return "application/json" }

type document struct {
	Form       model.FormModel     `json:"form"`
	Action     string              `json:"action"`
	Cancel     string              `json:"cancel,omitempty"`
	Locale     string              `json:"locale,omitempty"`
	Values     map[string]any      `json:"values,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
	Hidden     map[string]string   `json:"hidden,omitempty"`
	Flash      []render.Flash      `json:"flash,omitempty"`
	Theme      string              `json:"theme,omitempty"`
}

func (r *Renderer) Render(_ context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	localized := cloneForm(form)
	render.LocalizeFormModel(&localized, opts)

	doc := document{
		Form:       localized,
		Action:     opts.Action,
		Cancel:     opts.CancelURL,
		Locale:     opts.Locale,
		Values:     opts.Values,
		Errors:     opts.Errors,
		FormErrors: opts.FormErrors,
		Hidden:     opts.HiddenFields,
		Flash:      opts.Flash,
	}
	if doc.Action == "" {
		doc.Action = form.Endpoint
	}
	if opts.Theme != nil {
		doc.Theme = opts.Theme.Theme
	}

	var (
		payload []byte
		err     error
	)
	if r.indent != "" {
		payload, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		payload, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonform: encode: %w", err)
	}
	return payload, nil
}

func cloneForm(form model.FormModel) model.FormModel {
	out := form
	out.UIHints = copyMap(form.UIHints)
	out.Fields = make([]model.Field, len(form.Fields))
	for i, field := range form.Fields {
		field.UIHints = copyMap(field.UIHints)
		out.Fields[i] = field
	}
	return out
}

func copyMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
