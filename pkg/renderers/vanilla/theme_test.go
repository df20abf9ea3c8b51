package vanilla_test

import (
	"io/fs"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-swmodule/pkg/renderers/vanilla"
)

func TestSelector_Select(t *testing.T) {
	selector, err := vanilla.NewSelector()
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if selector.Provider() == nil {
		t.Fatalf("expected go-theme provider")
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if selection.Theme != "console" || selection.Variant != "" {
		t.Fatalf("unexpected selection %+v", selection)
	}
	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
	if _, err := selector.Select("console", "sepia"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}

func TestRendererConfig_MergesVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"color.primary": "#123456", "radius": "4px"},
		Templates: map[string]string{
			vanilla.PartialInput: "themes/acme/input.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"vanilla.stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"color.primary": "#654321"},
				Templates: map[string]string{vanilla.PartialSelect: "themes/acme/dark/select.tmpl"},
			},
		},
	}
	selector, err := vanilla.NewSelector(manifest)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	selection, err := selector.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg := vanilla.RendererConfig(selection, vanilla.DefaultPartials())
	if cfg.Partials[vanilla.PartialInput] != "themes/acme/input.tmpl" {
		t.Fatalf("base template override missing: %v", cfg.Partials)
	}
	if cfg.Partials[vanilla.PartialSelect] != "themes/acme/dark/select.tmpl" {
		t.Fatalf("variant template override missing: %v", cfg.Partials)
	}
	if cfg.Partials[vanilla.PartialTextarea] != vanilla.DefaultPartials()[vanilla.PartialTextarea] {
		t.Fatalf("fallback partial missing: %v", cfg.Partials)
	}
	if cfg.CSSVars["--color-primary"] != "#654321" || cfg.CSSVars["--radius"] != "4px" {
		t.Fatalf("css vars not derived from merged tokens: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("vanilla.stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("asset url: got %q", got)
	}
	if got := cfg.AssetURL("unknown"); got != "" {
		t.Fatalf("unknown asset url: got %q", got)
	}
}

func TestRendererConfig_NilSelection(t *testing.T) {
	if cfg := vanilla.RendererConfig(nil, nil); cfg != nil {
		t.Fatalf("expected nil config")
	}
}

func TestAssetsFS(t *testing.T) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("stylesheet is empty")
	}
}
