package render

import theme "github.com/goliatone/go-theme"

// Flash is a notification surfaced above the form.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model pipeline.
type RenderOptions struct {
	// Action overrides the form model endpoint (e.g. with the module ID
	// substituted into the path).
	Action string
	// CancelURL is where the cancel link leads. Renderers omit the link when
	// it is empty.
	CancelURL string
	// Values pre-populates rendered controls keyed by field name.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages not attributable to a single field.
	FormErrors []string
	// Flash carries success or validation notifications.
	Flash []Flash
	// HiddenFields are emitted as hidden inputs (revision, mode).
	HiddenFields map[string]string
	// Locale and Translator drive LocalizeFormModel and template helpers.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme carries the resolved theme selection for HTML renderers.
	Theme *theme.RendererConfig
}
