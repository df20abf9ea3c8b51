package gotemplate_test

import (
	"io"
	"os"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-swmodule/pkg/render/template/gotemplate"
	"github.com/goliatone/go-swmodule/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(os.DirFS("testdata"))}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template fs")
	}
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello Ada!" {
		t.Fatalf("render result: got %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: got %q", written)
	}
}

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"module.tpl": {Data: []byte(`{{ module.name }}:{{ module.version }}`)},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type module struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	got, err := engine.RenderTemplate("module.tpl", map[string]any{"module": module{Name: "agent", Version: "1.0.0"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "agent:1.0.0" {
		t.Fatalf("render result: got %q", got)
	}
}

func TestEngine_RenderStringPassesFunctions(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderString(`{{ greet(name) }} {{ flash.0.level }}`, map[string]any{
		"greet": func(name string) string { return "hi " + name },
		"name":  "ops",
		"flash": []struct {
			Level string `json:"level"`
		}{{Level: "success"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hi ops success" {
		t.Fatalf("render result: got %q", got)
	}
}

func TestEngine_RenderStringSyntaxError(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderString(`{% if %}`, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
