package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

type fakeRenderer struct {
	name        string
	contentType string
}

func (f fakeRenderer) Name() string        { return f.name }
func (f fakeRenderer) ContentType() string { return f.contentType }
func (f fakeRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(f.name), nil
}

func newRegistry(t *testing.T) *render.Registry {
	t.Helper()
	registry := render.NewRegistry()
	registry.MustRegister(fakeRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"})
	registry.MustRegister(fakeRenderer{name: "json", contentType: "application/json"})
	return registry
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	registry := newRegistry(t)
	if err := registry.Register(fakeRenderer{name: "json"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := newRegistry(t)
	renderer, err := registry.Get("json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if renderer.Name() != "json" {
		t.Fatalf("expected json renderer, got %q", renderer.Name())
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected error for missing renderer")
	}
}

func TestRegistry_Negotiate(t *testing.T) {
	registry := newRegistry(t)

	cases := map[string]string{
		"":                                   "vanilla",
		"*/*":                                "vanilla",
		"application/json":                   "json",
		"text/plain, application/json;q=0.9": "json",
		"text/html,application/xhtml+xml":    "vanilla",
		"image/png":                          "vanilla",
	}
	for accept, want := range cases {
		renderer, err := registry.Negotiate(accept)
		if err != nil {
			t.Fatalf("negotiate %q: %v", accept, err)
		}
		if renderer.Name() != want {
			t.Fatalf("negotiate %q: want %q, got %q", accept, want, renderer.Name())
		}
	}
}

func TestRegistry_NegotiateEmpty(t *testing.T) {
	if _, err := render.NewRegistry().Negotiate("text/html"); err == nil {
		t.Fatalf("expected error from empty registry")
	}
}
