package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-swmodule/pkg/openapi"
)

func intPtr(v int) *int { return &v }

func TestBuilder_BuildOrdersFieldsAndExtractsHints(t *testing.T) {
	op := pkgopenapi.MustNewOperation("createSoftwareModule", "post", "/software-modules", pkgopenapi.Schema{
		Type:     "object",
		Required: []string{"name", "type"},
		Properties: map[string]pkgopenapi.Schema{
			"name": {
				Type:      "string",
				MaxLength: intPtr(64),
				Extensions: map[string]any{
					"x-formgen": map[string]any{"order": float64(2), "labelKey": "textfield.name", "componentId": "soft.module.name"},
				},
			},
			"type": {
				Type:       "string",
				Extensions: map[string]any{"x-formgen": map[string]any{"order": float64(1), "widget": "select"}},
			},
			"notes": {Type: "string"},
			"vendor": {
				Type:       "string",
				Extensions: map[string]any{"x-formgen-label": "Vendor", "x-formgen-group": "details"},
			},
		},
	})
	op.Extensions = map[string]any{"x-formgen": map[string]any{"layout.titleKey": "upload.caption.add.new.swmodule", "dialog": "create"}}

	form, err := New(Options{}).Build(op)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var names []string
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"type", "name", "notes", "vendor"}, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	if form.Method != "POST" {
		t.Fatalf("expected upper-cased method, got %q", form.Method)
	}
	if form.UIHints["layout.titleKey"] != "upload.caption.add.new.swmodule" {
		t.Fatalf("missing form title hint: %#v", form.UIHints)
	}
	if form.Metadata["dialog"] != "create" {
		t.Fatalf("missing form metadata: %#v", form.Metadata)
	}

	name := form.Field("name")
	if !name.Required || name.MaxLength() != 64 {
		t.Fatalf("unexpected name field: %+v", name)
	}
	if name.UIHint("componentId") != "soft.module.name" || name.UIHint("labelKey") != "textfield.name" {
		t.Fatalf("unexpected name hints: %#v", name.UIHints)
	}

	vendor := form.Field("vendor")
	if vendor.Label != "Vendor" || vendor.Required {
		t.Fatalf("unexpected vendor field: %+v", vendor)
	}
	if vendor.Metadata["group"] != "details" {
		t.Fatalf("expected non-hint extension in metadata, got %#v", vendor.Metadata)
	}

	if notes := form.Field("notes"); notes.Label != "Notes" {
		t.Fatalf("expected default label, got %q", notes.Label)
	}
}

func TestBuilder_RejectsNestedObjects(t *testing.T) {
	op := pkgopenapi.MustNewOperation("create", "POST", "/x", pkgopenapi.Schema{
		Type: "object",
		Properties: map[string]pkgopenapi.Schema{
			"owner": {Type: "object"},
		},
	})
	if _, err := New(Options{}).Build(op); err == nil {
		t.Fatalf("expected error for nested object property")
	}
}

func TestDefaultLabeler(t *testing.T) {
	if got := defaultLabeler("moduleType"); got != "Module Type" {
		t.Fatalf("defaultLabeler = %q", got)
	}
}
