// Package sanitize normalises free text submitted through the dialog.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// TrimToEmpty trims surrounding whitespace; blank input becomes "", which the
// entity model treats as absent.
func TrimToEmpty(raw string) string {
	return strings.TrimSpace(raw)
}

// HasMarkup reports whether the strict policy would drop anything from raw.
// Entities and stray angle brackets that read as text are not markup.
func HasMarkup(raw string) bool {
	trimmed := TrimToEmpty(raw)
	if !strings.Contains(trimmed, "<") {
		return false
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return html.UnescapeString(cleaned) != html.UnescapeString(trimmed)
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
