package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

type stubTranslator struct {
	messages map[string]string
}

func (s stubTranslator) Translate(locale, key string, _ ...any) (string, error) {
	if msg, ok := s.messages[locale+":"+key]; ok {
		return msg, nil
	}
	return "", errors.New("missing")
}

func dialogForm() model.FormModel {
	return model.FormModel{
		OperationID: "createSoftwareModule",
		UIHints: map[string]string{
			"layout.titleKey": "upload.caption.add.new.swmodule",
			"layout.title":    "Add software module",
		},
		Fields: []model.Field{
			{
				Name:  "name",
				Label: "Name",
				UIHints: map[string]string{
					"labelKey":       "textfield.name",
					"placeholderKey": "textfield.name",
				},
			},
			{
				Name:  "vendor",
				Label: "Vendor",
				UIHints: map[string]string{
					"labelKey": "textfield.vendor",
				},
			},
		},
	}
}

func TestLocalizeFormModel_TranslatesHints(t *testing.T) {
	form := dialogForm()
	render.LocalizeFormModel(&form, render.RenderOptions{
		Locale: "de",
		Translator: stubTranslator{messages: map[string]string{
			"de:upload.caption.add.new.swmodule": "Softwaremodul anlegen",
			"de:textfield.name":                  "Name",
			"de:textfield.vendor":                "Hersteller",
		}},
	})

	if got := form.UIHints["layout.title"]; got != "Softwaremodul anlegen" {
		t.Fatalf("title: got %q", got)
	}
	if got := form.Fields[0].Placeholder; got != "Name" {
		t.Fatalf("placeholder: got %q", got)
	}
	if got := form.Fields[1].Label; got != "Hersteller" {
		t.Fatalf("vendor label: got %q", got)
	}
}

func TestLocalizeFormModel_MissingFallsBackToDefault(t *testing.T) {
	form := dialogForm()
	render.LocalizeFormModel(&form, render.RenderOptions{Locale: "fr"})

	if got := form.UIHints["layout.title"]; got != "Add software module" {
		t.Fatalf("title fallback: got %q", got)
	}
	if got := form.Fields[1].Label; got != "Vendor" {
		t.Fatalf("label fallback: got %q", got)
	}
	// No existing placeholder, so the key itself is shown.
	if got := form.Fields[0].Placeholder; got != "textfield.name" {
		t.Fatalf("placeholder fallback: got %q", got)
	}
}

func TestLocalizeFormModel_OnMissingHandler(t *testing.T) {
	form := dialogForm()
	var missing []string
	render.LocalizeFormModel(&form, render.RenderOptions{
		Locale: "en",
		OnMissing: func(_ string, key string, _ []any, err error) string {
			if !errors.Is(err, render.ErrMissingTranslator) {
				t.Fatalf("expected ErrMissingTranslator, got %v", err)
			}
			missing = append(missing, key)
			return "?" + key
		},
	})

	if len(missing) != 4 {
		t.Fatalf("expected 4 missing keys, got %v", missing)
	}
	if got := form.Fields[1].Label; got != "?textfield.vendor" {
		t.Fatalf("label: got %q", got)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(stubTranslator{messages: map[string]string{
		"en:button.save": "Save",
	}}, render.TemplateI18nConfig{FuncName: "t"})

	fn, ok := funcs["t"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("expected translate helper under custom name, got %T", funcs["t"])
	}
	if got := fn("en", "button.save"); got != "Save" {
		t.Fatalf("translate: got %q", got)
	}
	if got := fn("en", "button.cancel"); got != "button.cancel" {
		t.Fatalf("missing translate: got %q", got)
	}
	if got := fn(nil, "  "); got != "" {
		t.Fatalf("blank key: got %q", got)
	}
}
