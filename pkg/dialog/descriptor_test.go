package dialog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-swmodule/pkg/model"
)

func TestLoadForms_EmbeddedDescriptor(t *testing.T) {
	forms, err := LoadForms(context.Background(), "")
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}

	for _, form := range []struct {
		name     string
		id       string
		endpoint string
		fields   []string
	}{
		{"create", forms.Create.OperationID, forms.Create.Endpoint, fieldNames(forms.Create.Fields)},
		{"update", forms.Update.OperationID, forms.Update.Endpoint, fieldNames(forms.Update.Fields)},
	} {
		want := []string{FieldType, FieldName, FieldVersion, FieldVendor, FieldDescription}
		if diff := cmp.Diff(want, form.fields); diff != "" {
			t.Fatalf("%s field order mismatch (-want +got):\n%s", form.name, diff)
		}
	}
	if forms.Create.OperationID != CreateOperationID || forms.Update.OperationID != UpdateOperationID {
		t.Fatalf("unexpected operation ids %q %q", forms.Create.OperationID, forms.Update.OperationID)
	}
	if forms.Create.UIHints["layout.titleKey"] != "upload.caption.add.new.swmodule" ||
		forms.Update.UIHints["layout.titleKey"] != "upload.caption.add.new.swmodule" {
		t.Fatalf("expected shared caption key, got %+v / %+v", forms.Create.UIHints, forms.Update.UIHints)
	}

	typeField := forms.Create.Field(FieldType)
	if !typeField.Required || typeField.UIHint("componentId") != "sw.module.type" || typeField.UIHint("autofocus") != "true" {
		t.Fatalf("unexpected type field %+v", typeField)
	}
	if vendor := forms.Create.Field(FieldVendor); vendor.Required || vendor.MaxLength() != 256 {
		t.Fatalf("unexpected vendor field %+v", vendor)
	}
	if desc := forms.Create.Field(FieldDescription); desc.UIHint("widget") != "textarea" || desc.MaxLength() != 512 {
		t.Fatalf("unexpected description field %+v", desc)
	}
}

func TestLoadForms_FileMissingOperation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descriptor.yaml")
	doc := `openapi: 3.0.3
info:
  title: partial
  version: "1"
paths: {}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	if _, err := LoadForms(context.Background(), path); err == nil {
		t.Fatalf("expected error for descriptor without operations")
	}
}

func fieldNames(fields []model.Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name)
	}
	return names
}
