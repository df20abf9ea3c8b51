package vanilla

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Partial keys resolved against theme templates.
const (
	PartialInput    = "forms.input"
	PartialSelect   = "forms.select"
	PartialTextarea = "forms.textarea"
	PartialDialog   = "forms.dialog"
)

// DefaultPartials maps partial keys to the embedded templates.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialInput:    "templates/components/input.tmpl",
		PartialSelect:   "templates/components/select.tmpl",
		PartialTextarea: "templates/components/textarea.tmpl",
		PartialDialog:   "templates/dialog.tmpl",
	}
}

// DefaultManifest is the console theme shipped with the dialog, with a
// "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "console",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color.primary": "#1f6feb",
			"color.danger":  "#cf222e",
			"color.success": "#1a7f37",
			"color.surface": "#ffffff",
			"color.text":    "#1f2328",
			"color.border":  "#d0d7de",
			"radius":        "6px",
			"font.family":   "system-ui, sans-serif",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color.primary": "#2f81f7",
					"color.surface": "#0d1117",
					"color.text":    "#e6edf3",
					"color.border":  "#30363d",
				},
			},
		},
	}
}

// Selector resolves theme and variant names against registered manifests.
type Selector struct {
	manifests    map[string]*theme.Manifest
	defaultTheme string
	provider     theme.ThemeProvider
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers the manifests with a go-theme registry. The first
// manifest is the default theme.
func NewSelector(manifests ...*theme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	selector := &Selector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
			return nil, fmt.Errorf("vanilla theme: manifest name is required")
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("vanilla theme: register %q: %w", manifest.Name, err)
		}
		selector.manifests[manifest.Name] = manifest
		if selector.defaultTheme == "" {
			selector.defaultTheme = manifest.Name
		}
	}
	selector.provider = registry
	return selector, nil
}

// Provider exposes the underlying go-theme registry.
func (s *Selector) Provider() theme.ThemeProvider {
	return s.provider
}

// Select implements theme.ThemeSelector. An empty name selects the default
// theme; an empty variant selects the base tokens.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("vanilla theme: unknown theme %q", name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla theme: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection into renderer configuration: variant
// tokens, templates and assets override the base manifest, and fallbacks
// fill partials neither defines. Tokens are exposed as CSS custom
// properties ("color.primary" becomes "--color-primary").
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStringMaps(fallbacks, manifest.Templates, variant.Templates),
		Tokens:   mergeStringMaps(manifest.Tokens, variant.Tokens),
	}
	cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		cfg.CSSVars[cssVarName(key)] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStringMaps(manifest.Assets.Files, variant.Assets.Files)
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

func cssVarName(token string) string {
	name := strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(strings.TrimPrefix(strings.TrimSpace(token), "--"))
	return "--" + strings.ToLower(name)
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func mergeStringMaps(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			if strings.TrimSpace(value) == "" {
				continue
			}
			out[key] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
