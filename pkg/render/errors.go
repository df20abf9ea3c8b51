package render

import (
	"strings"

	"github.com/goliatone/go-swmodule/pkg/model"
)

// ErrorMapping splits a validation payload into field-level and form-level
// messages keyed by field name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises error payloads keyed by JSON pointer or dotted
// paths ("/body/name", "$.name", "name") onto the form's field names.
// Unknown paths are treated as form-level errors so messages are not lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	known := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		known[field.Name] = struct{}{}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name := fieldFromPath(rawPath)
		if _, ok := known[name]; !ok || isFormLevelKey(rawPath) {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func fieldFromPath(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimLeft(clean, "#$./")
	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	for len(parts) > 0 {
		switch strings.ToLower(parts[0]) {
		case "body", "request", "payload", "data":
			parts = parts[1:]
			continue
		}
		break
	}
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
