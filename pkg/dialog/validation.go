package dialog

import (
	"sort"
	"strings"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

// ValidationError reports why the dialog refused to save. Fields holds
// messages keyed by field name; Form holds messages about the submission as
// a whole, such as the duplicate notice.
type ValidationError struct {
	Fields    map[string][]string
	Form      []string
	Duplicate bool
}

func (e *ValidationError) Error() string {
	parts := append([]string(nil), e.Form...)
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return "dialog: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) addField(name, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[name] = append(e.Fields[name], message)
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0 && len(e.Form) == 0
}

// Payload flattens the error into a path keyed payload, with form level
// messages under "".
func (e *ValidationError) Payload() map[string][]string {
	payload := make(map[string][]string, len(e.Fields)+1)
	for name, messages := range e.Fields {
		payload[name] = append([]string(nil), messages...)
	}
	if len(e.Form) > 0 {
		payload[""] = append([]string(nil), e.Form...)
	}
	return payload
}

// Apply maps the messages onto the form and merges them into opts.
func (e *ValidationError) Apply(form model.FormModel, opts *render.RenderOptions) {
	if e == nil || opts == nil {
		return
	}
	mapped := render.MapErrorPayload(form, e.Payload())
	if len(mapped.Fields) > 0 && opts.Errors == nil {
		opts.Errors = make(map[string][]string, len(mapped.Fields))
	}
	for name, messages := range mapped.Fields {
		opts.Errors[name] = append(opts.Errors[name], messages...)
	}
	opts.FormErrors = render.MergeFormErrors(opts.FormErrors, mapped.Form...)
}
