// Package testsupport holds shared fixtures for package tests: a seeded
// in-memory repository and output capture helpers.
package testsupport

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-swmodule/internal/memstore"
	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

// FixedTime is the clock used by NewStore so audit fields are stable.
var FixedTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// NewStore returns an in-memory repository seeded with the default module
// types (OS, Runtime, Application) and a fixed clock.
func NewStore(t *testing.T) *memstore.Store {
	t.Helper()

	store, err := memstore.New(
		memstore.WithTypes(memstore.DefaultTypes()...),
		memstore.WithClock(func() time.Time { return FixedTime }),
	)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

// MustType resolves a module type by name.
func MustType(t *testing.T, repo softwaremodule.Repository, name string) *softwaremodule.ModuleType {
	t.Helper()

	typ, err := repo.FindTypeByName(context.Background(), name)
	if err != nil {
		t.Fatalf("find type %q: %v", name, err)
	}
	return typ
}

// SeedModule creates a module directly in the repository, bypassing the
// dialog.
func SeedModule(t *testing.T, repo softwaremodule.Repository, typeName, name, version, vendor, description string) *softwaremodule.SoftwareModule {
	t.Helper()

	module := softwaremodule.DefaultFactory{Actor: "fixture"}.NewModule(
		MustType(t, repo, typeName), name, version, vendor, description)
	created, err := repo.CreateModule(context.Background(), module)
	if err != nil {
		t.Fatalf("seed module %s:%s: %v", name, version, err)
	}
	return created
}

// CaptureTemplateOutput runs fn with a buffer and returns both the returned
// string and what was written to the buffer.
func CaptureTemplateOutput(t *testing.T, fn func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf strings.Builder
	result, err := fn(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return result, buf.String()
}

// AssertContains fails the test when any of the fragments is missing.
func AssertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()

	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

// AssertNotContains fails the test when any of the fragments is present.
func AssertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()

	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, output)
		}
	}
}
