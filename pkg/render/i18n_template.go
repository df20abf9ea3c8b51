package render

import (
	"fmt"
	"strings"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
	// OnMissing controls the string returned when a translation is missing.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers suitable for injecting into the template
// engine as globals. The main helper signature is:
//
//	translate(locale, key, ...args) string
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	translateName := strings.TrimSpace(cfg.FuncName)
	if translateName == "" {
		translateName = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = func(_ string, key string, _ []any, _ error) string { return key }
	}

	return map[string]any{
		translateName: func(locale any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			loc := ""
			if locale != nil {
				loc = fmt.Sprint(locale)
			}
			if t == nil {
				return onMissing(loc, key, params, ErrMissingTranslator)
			}
			msg, err := t.Translate(loc, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(loc, key, params, err)
			}
			return msg
		},
	}
}
