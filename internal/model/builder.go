// Package model converts OpenAPI operations into form models.
package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-swmodule/pkg/openapi"
)

const extensionNamespace = "x-formgen"

// uiHintKeys lists the x-formgen keys surfaced to renderers as UI hints.
// Everything else stays in Metadata.
var uiHintKeys = map[string]struct{}{
	"labelKey":        {},
	"placeholderKey":  {},
	"descriptionKey":  {},
	"helpText":        {},
	"widget":          {},
	"inputType":       {},
	"componentId":     {},
	"autofocus":       {},
	"cssClass":        {},
	"order":           {},
	"layout.titleKey": {},
	"layout.title":    {},
	"allowNewItems":   {},
}

// Options configures the Builder.
type Options struct {
	Labeler func(string) string
}

func defaultOptions() Options {
	return Options{Labeler: defaultLabeler}
}

// Builder converts OpenAPI operations into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build transforms an OpenAPI operation into a FormModel. Fields follow the
// x-formgen "order" hint, then their property name.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if strings.TrimSpace(op.ID) == "" {
		return FormModel{}, errors.New("model builder: operation id is required")
	}
	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return FormModel{}, fmt.Errorf("model builder: operation %q request body must be an object, got %q", op.ID, body.Type)
	}

	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Summary:     op.Summary,
		Description: op.Description,
		Metadata:    map[string]string{},
		UIHints:     map[string]string{},
	}

	opExt := metadataFromExtensions(op.Extensions)
	mergeMetadata(form.Metadata, opExt)
	mergeMetadata(form.UIHints, filterUIHints(opExt))

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}
	for name, property := range body.Properties {
		_, isRequired := required[name]
		field, err := b.fieldFromPrimitive(name, property, isRequired)
		if err != nil {
			return FormModel{}, fmt.Errorf("model builder: operation %q: %w", op.ID, err)
		}
		form.Fields = append(form.Fields, field)
	}
	sortFields(form.Fields)

	if len(form.Metadata) == 0 {
		form.Metadata = nil
	}
	if len(form.UIHints) == 0 {
		form.UIHints = nil
	}
	return form, nil
}

func (b *Builder) fieldFromPrimitive(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	var fieldType FieldType
	switch schema.Type {
	case "", "string":
		fieldType = FieldTypeString
	case "integer":
		fieldType = FieldTypeInteger
	case "number":
		fieldType = FieldTypeNumber
	case "boolean":
		fieldType = FieldTypeBoolean
	default:
		return Field{}, fmt.Errorf("field %q: unsupported type %q", name, schema.Type)
	}

	field := Field{
		Name:        name,
		Type:        fieldType,
		Format:      schema.Format,
		Required:    required,
		Label:       b.opts.Labeler(name),
		Description: schema.Description,
		Default:     schema.Default,
	}
	for _, value := range schema.Enum {
		text := fmt.Sprint(value)
		field.Options = append(field.Options, Option{Value: text, Label: text})
	}
	applyValidations(&field, schema)

	ext := metadataFromExtensions(schema.Extensions)
	if label := ext["label"]; label != "" {
		field.Label = label
		delete(ext, "label")
	}
	if placeholder := ext["placeholder"]; placeholder != "" {
		field.Placeholder = placeholder
		delete(ext, "placeholder")
	}
	hints := filterUIHints(ext)
	for key := range hints {
		delete(ext, key)
	}
	if len(ext) > 0 {
		field.Metadata = ext
	}
	if len(hints) > 0 {
		field.UIHints = hints
	}
	return field, nil
}

func applyValidations(field *Field, schema pkgopenapi.Schema) {
	if schema.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MinLength)},
		})
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MaxLength)},
		})
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
}

// metadataFromExtensions flattens the x-formgen map and x-formgen-* keys into
// string metadata.
func metadataFromExtensions(ext map[string]any) map[string]string {
	out := make(map[string]string)
	if len(ext) == 0 {
		return out
	}
	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			out[strings.TrimSpace(key)] = stringify(value)
		}
	}
	for key, value := range ext {
		if name, ok := strings.CutPrefix(key, extensionNamespace+"-"); ok && name != "" {
			out[name] = stringify(value)
		}
	}
	return out
}

func filterUIHints(metadata map[string]string) map[string]string {
	out := make(map[string]string)
	for key, value := range metadata {
		if _, ok := uiHintKeys[key]; ok {
			out[key] = value
		}
	}
	return out
}

func mergeMetadata(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func sortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		oi, okI := fieldOrder(fields[i])
		oj, okJ := fieldOrder(fields[j])
		switch {
		case okI && okJ && oi != oj:
			return oi < oj
		case okI != okJ:
			return okI
		default:
			return fields[i].Name < fields[j].Name
		}
	})
}

func fieldOrder(field Field) (int, bool) {
	raw := field.UIHint("order")
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func defaultLabeler(name string) string {
	if name == "" {
		return ""
	}
	var out strings.Builder
	for i, r := range name {
		if i == 0 {
			out.WriteString(strings.ToUpper(string(r)))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			out.WriteByte(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}
