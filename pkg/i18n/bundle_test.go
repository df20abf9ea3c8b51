package i18n

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_LoadsEmbeddedLocales(t *testing.T) {
	bundle, err := Default()
	if err != nil {
		t.Fatalf("default bundle: %v", err)
	}
	if diff := cmp.Diff([]string{"de", "en"}, bundle.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}

	got, err := bundle.Translate("en", "message.duplicate.softwaremodule", "yocto", "1.0")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if want := "Software Module with name yocto and version 1.0 already exists"; got != want {
		t.Fatalf("translate mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestTranslate_FallsBackThroughBaseAndDefault(t *testing.T) {
	bundle := New()
	if err := bundle.Load("en", []byte("greeting: Hello\nfarewell: Bye\n")); err != nil {
		t.Fatalf("load en: %v", err)
	}
	if err := bundle.Load("de", []byte("greeting: Hallo\n")); err != nil {
		t.Fatalf("load de: %v", err)
	}

	if got := bundle.Get("de_AT", "greeting"); got != "Hallo" {
		t.Fatalf("expected base language fallback, got %q", got)
	}
	if got := bundle.Get("de", "farewell"); got != "Bye" {
		t.Fatalf("expected default locale fallback, got %q", got)
	}
	if got := bundle.Get("de", "unknown.key"); got != "unknown.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	if _, err := bundle.Translate("de", "unknown.key"); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		message string
		args    []any
		want    string
	}{
		{"{0}:{1}", []any{"os", "1.0"}, "os:1.0"},
		{"{1} before {0}", []any{"a", "b"}, "b before a"},
		{"missing {2}", []any{"a"}, "missing {2}"},
		{"literal {name}", []any{"a"}, "literal {name}"},
		{"unterminated {0", []any{"a"}, "unterminated {0"},
		{"no args {0}", nil, "no args {0}"},
	}
	for _, tc := range cases {
		if got := Format(tc.message, tc.args...); got != tc.want {
			t.Errorf("Format(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}
