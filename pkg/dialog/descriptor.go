package dialog

import (
	"context"
	"embed"
	"fmt"

	"github.com/goliatone/go-swmodule/internal/openapi/loader"
	"github.com/goliatone/go-swmodule/internal/openapi/parser"
	"github.com/goliatone/go-swmodule/pkg/model"
	pkgopenapi "github.com/goliatone/go-swmodule/pkg/openapi"
)

// Operation IDs declared by the descriptor.
const (
	CreateOperationID = "createSoftwareModule"
	UpdateOperationID = "updateSoftwareModule"
)

// Field names shared by the descriptor, the form values and the renderers.
const (
	FieldType        = "type"
	FieldName        = "name"
	FieldVersion     = "version"
	FieldVendor      = "vendor"
	FieldDescription = "description"
)

//go:embed descriptor.yaml
var descriptorFS embed.FS

const descriptorName = "descriptor.yaml"

// Forms holds the form models built from the descriptor, one per mode.
type Forms struct {
	Create model.FormModel
	Update model.FormModel
}

// LoadForms builds the dialog forms from the embedded descriptor, or from
// the file at path when non-empty.
func LoadForms(ctx context.Context, path string) (*Forms, error) {
	var (
		src  pkgopenapi.Source
		opts pkgopenapi.LoaderOptions
	)
	if path != "" {
		src = pkgopenapi.SourceFromFile(path)
		opts = pkgopenapi.NewLoaderOptions()
	} else {
		src = pkgopenapi.SourceFromFS(descriptorName)
		opts = pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(descriptorFS))
	}

	doc, err := loader.New(opts).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("dialog: load descriptor: %w", err)
	}
	operations, err := parser.New(pkgopenapi.NewParserOptions()).Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("dialog: parse descriptor: %w", err)
	}

	builder := model.NewBuilder()
	forms := &Forms{}
	for id, target := range map[string]*model.FormModel{
		CreateOperationID: &forms.Create,
		UpdateOperationID: &forms.Update,
	} {
		op, ok := operations[id]
		if !ok {
			return nil, fmt.Errorf("dialog: descriptor has no operation %q", id)
		}
		form, err := builder.Build(op)
		if err != nil {
			return nil, fmt.Errorf("dialog: build form %q: %w", id, err)
		}
		for _, name := range []string{FieldType, FieldName, FieldVersion, FieldVendor, FieldDescription} {
			if form.Field(name) == nil {
				return nil, fmt.Errorf("dialog: form %q is missing field %q", id, name)
			}
		}
		*target = form
	}
	return forms, nil
}
