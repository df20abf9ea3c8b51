package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "type", Type: model.FieldTypeString},
			{Name: "name", Type: model.FieldTypeString},
			{Name: "version", Type: model.FieldTypeString},
		},
	}

	payload := map[string][]string{
		"/body/name":       {"Name is required", " Name is required "},
		"$.version":        {"Version too long"},
		"request.type":     {"Unknown type"},
		"non_field_errors": {"Module already exists"},
		"body/owner":       {"Falls back to the form"},
		"":                 {"  "},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"name":    {"Name is required"},
		"version": {"Version too long"},
		"type":    {"Unknown type"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Falls back to the form", "Module already exists"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload(model.FormModel{}, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
