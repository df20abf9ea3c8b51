package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-swmodule/pkg/model"
)

const (
	formTitleKeyHint = "layout.titleKey"
	formTitleHint    = "layout.title"

	fieldLabelKeyHint       = "labelKey"
	fieldDescriptionKeyHint = "descriptionKey"
	fieldPlaceholderKeyHint = "placeholderKey"
)

// Translator resolves localized strings.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to display when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) == 1 {
		if hint, ok := args[0].(map[string]any); ok {
			if fallback, ok := hint["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LocalizeFormModel mutates the supplied form model in place, translating any
// configured `*Key` hints into their localized string values. Failures are
// routed through opts.OnMissing.
func LocalizeFormModel(form *model.FormModel, opts RenderOptions) {
	if form == nil {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	if key := strings.TrimSpace(form.UIHints[formTitleKeyHint]); key != "" {
		form.UIHints[formTitleHint] = translate(opts.Locale, key, strings.TrimSpace(form.UIHints[formTitleHint]), opts.Translator, onMissing)
	}

	for i := range form.Fields {
		localizeField(&form.Fields[i], opts.Locale, opts.Translator, onMissing)
	}
}

func localizeField(field *model.Field, locale string, t Translator, onMissing MissingTranslationHandler) {
	if key := strings.TrimSpace(field.UIHint(fieldLabelKeyHint)); key != "" {
		field.Label = translate(locale, key, strings.TrimSpace(field.Label), t, onMissing)
	}
	if key := strings.TrimSpace(field.UIHint(fieldDescriptionKeyHint)); key != "" {
		field.Description = translate(locale, key, strings.TrimSpace(field.Description), t, onMissing)
	}
	if key := strings.TrimSpace(field.UIHint(fieldPlaceholderKeyHint)); key != "" {
		field.Placeholder = translate(locale, key, strings.TrimSpace(field.Placeholder), t, onMissing)
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	hint := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, hint, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, hint, err)
}
