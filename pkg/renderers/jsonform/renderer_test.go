package jsonform

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

type mapTranslator map[string]string

func (m mapTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if value, ok := m[key]; ok {
		return value, nil
	}
	return "", render.ErrMissingTranslator
}

func TestRenderer_EncodesLocalizedForm(t *testing.T) {
	form := model.FormModel{
		OperationID: "createSoftwareModule",
		Endpoint:    "/software-modules",
		Method:      "POST",
		UIHints:     map[string]string{"layout.titleKey": "caption"},
		Fields: []model.Field{{
			Name:     "name",
			Type:     model.FieldTypeString,
			Required: true,
			UIHints:  map[string]string{"labelKey": "textfield.name"},
		}},
	}

	output, err := New().Render(context.Background(), form, render.RenderOptions{
		Locale:       "de",
		Translator:   mapTranslator{"caption": "Softwaremodul", "textfield.name": "Name (de)"},
		Values:       map[string]any{"name": "agent"},
		Errors:       map[string][]string{"name": {"taken"}},
		HiddenFields: map[string]string{"_revision": "3"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var doc struct {
		Form   model.FormModel     `json:"form"`
		Action string              `json:"action"`
		Locale string              `json:"locale"`
		Values map[string]any      `json:"values"`
		Errors map[string][]string `json:"errors"`
		Hidden map[string]string   `json:"hidden"`
	}
	if err := json.Unmarshal(output, &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, output)
	}

	if doc.Action != "/software-modules" || doc.Locale != "de" {
		t.Fatalf("unexpected envelope %+v", doc)
	}
	if doc.Form.UIHints["layout.title"] != "Softwaremodul" {
		t.Fatalf("title not localized: %+v", doc.Form.UIHints)
	}
	if doc.Form.Fields[0].Label != "Name (de)" {
		t.Fatalf("label not localized: %q", doc.Form.Fields[0].Label)
	}
	if diff := cmp.Diff(map[string][]string{"name": {"taken"}}, doc.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if doc.Hidden["_revision"] != "3" || doc.Values["name"] != "agent" {
		t.Fatalf("unexpected hidden/values %+v %+v", doc.Hidden, doc.Values)
	}

	if _, ok := form.UIHints["layout.title"]; ok {
		t.Fatalf("input form was mutated")
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := New(WithIndent("  "))
	if r.Name() != "json" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected renderer identity %s %s", r.Name(), r.ContentType())
	}
}
