package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-swmodule/pkg/render"
)

func TestMergeHiddenFields(t *testing.T) {
	base := map[string]string{"mode": "new", " ": "ignored"}
	merged := render.MergeHiddenFields(base,
		render.VersionField("_revision", 3),
		render.Hidden("mode", "edit"),
		render.Hidden("", "dropped"),
	)

	want := map[string]string{"mode": "edit", "_revision": "3"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
	if base["mode"] != "new" {
		t.Fatalf("base map must not be mutated")
	}
}

func TestMergeHiddenFields_Empty(t *testing.T) {
	if got := render.MergeHiddenFields(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSortedHiddenFields(t *testing.T) {
	sorted := render.SortedHiddenFields(map[string]string{"mode": "edit", "_revision": "2"})
	want := []render.HiddenField{{Name: "_revision", Value: "2"}, {Name: "mode", Value: "edit"}}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Fatalf("sorted mismatch (-want +got):\n%s", diff)
	}
}
