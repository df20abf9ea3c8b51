// Package i18n resolves display strings for the dialog from YAML message
// bundles. Messages use positional placeholders ({0}, {1}, ...).
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a requested locale has no bundle or lacks a key.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// ErrMissingKey reports a key absent from every candidate bundle.
var ErrMissingKey = errors.New("i18n: missing translation")

// Bundle maps locale -> key -> message. It is safe for concurrent reads and
// additive loads.
type Bundle struct {
	mu            sync.RWMutex
	defaultLocale string
	messages      map[string]map[string]string
}

// Option configures a Bundle.
type Option func(*Bundle)

// WithDefaultLocale overrides DefaultLocale.
func WithDefaultLocale(locale string) Option {
	return func(b *Bundle) {
		if normalized := normalizeLocale(locale); normalized != "" {
			b.defaultLocale = normalized
		}
	}
}

// New returns an empty bundle.
func New(options ...Option) *Bundle {
	b := &Bundle{
		defaultLocale: DefaultLocale,
		messages:      make(map[string]map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Default returns a bundle preloaded with the embedded locales.
func Default(options ...Option) (*Bundle, error) {
	b := New(options...)
	if err := b.LoadFS(embeddedLocales, "locales"); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFS loads every *.yaml file under dir; the file stem is the locale.
func (b *Bundle) LoadFS(files fs.FS, dir string) error {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return fmt.Errorf("i18n: read %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := fs.ReadFile(files, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", name, err)
		}
		if err := b.Load(strings.TrimSuffix(name, ext), data); err != nil {
			return err
		}
	}
	return nil
}

// Load merges a YAML document of key: message pairs into locale.
func (b *Bundle) Load(locale string, data []byte) error {
	locale = normalizeLocale(locale)
	if locale == "" {
		return errors.New("i18n: locale is required")
	}
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: decode %s: %w", locale, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	target := b.messages[locale]
	if target == nil {
		target = make(map[string]string, len(messages))
		b.messages[locale] = target
	}
	for key, message := range messages {
		target[strings.TrimSpace(key)] = message
	}
	return nil
}

// Locales lists loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.messages))
	for locale := range b.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate resolves key for locale, trying the exact locale, its base
// language, then the default locale. Args fill {n} placeholders.
func (b *Bundle) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMissingKey
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, candidate := range b.candidates(locale) {
		if message, ok := b.messages[candidate][key]; ok {
			return Format(message, args...), nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingKey, key, locale)
}

// Get is the lookup used by display code: it never fails and falls back to
// the key itself.
func (b *Bundle) Get(locale, key string, args ...any) string {
	message, err := b.Translate(locale, key, args...)
	if err != nil {
		return key
	}
	return message
}

func (b *Bundle) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if base, _, ok := strings.Cut(locale, "-"); ok {
			out = append(out, base)
		}
	}
	if b.defaultLocale != locale {
		out = append(out, b.defaultLocale)
	}
	return out
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	locale = strings.ReplaceAll(locale, "_", "-")
	return strings.ToLower(locale)
}

// Format replaces {n} placeholders with fmt.Sprint(args[n]). Placeholders
// without a matching argument are left untouched.
func Format(message string, args ...any) string {
	if len(args) == 0 || !strings.Contains(message, "{") {
		return message
	}
	var out strings.Builder
	out.Grow(len(message))
	for i := 0; i < len(message); i++ {
		if message[i] != '{' {
			out.WriteByte(message[i])
			continue
		}
		end := strings.IndexByte(message[i:], '}')
		if end < 0 {
			out.WriteString(message[i:])
			break
		}
		index, err := strconv.Atoi(message[i+1 : i+end])
		if err != nil || index < 0 || index >= len(args) {
			out.WriteString(message[i : i+end+1])
		} else {
			out.WriteString(fmt.Sprint(args[index]))
		}
		i += end
	}
	return out.String()
}
