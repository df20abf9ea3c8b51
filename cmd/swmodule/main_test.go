package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-swmodule/pkg/renderers/tui"
)

type result struct {
	out string
	err error
}

func run(t *testing.T, store string, driver tui.PromptDriver, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut, driver)
	cmd.SetArgs(append([]string{"--store.path", store, "--log.level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{out: out.String(), err: err}
}

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "modules.yaml")
}

func TestTypes_ListsDefaults(t *testing.T) {
	res := run(t, storePath(t), nil, "types")
	if res.err != nil {
		t.Fatalf("types: %v", res.err)
	}
	for _, want := range []string{"NAME", "Application", "OS", "Runtime"} {
		if !strings.Contains(res.out, want) {
			t.Fatalf("expected %q in output:\n%s", want, res.out)
		}
	}
}

func TestAddEditList(t *testing.T) {
	store := storePath(t)

	res := run(t, store, nil, "add", "--type", "OS", "--name", "agent", "--version", "1.0.0", "--vendor", "ACME")
	if res.err != nil {
		t.Fatalf("add: %v\n%s", res.err, res.out)
	}
	if !strings.Contains(res.out, "Software Module agent:1.0.0 saved successfully") {
		t.Fatalf("missing success message:\n%s", res.out)
	}

	res = run(t, store, nil, "add", "--type", "OS", "--name", "agent", "--version", "1.0.0")
	if !errors.Is(res.err, errValidation) {
		t.Fatalf("expected validation error, got %v", res.err)
	}
	if !strings.Contains(res.out, "already exists") {
		t.Fatalf("missing duplicate message:\n%s", res.out)
	}

	res = run(t, store, nil, "edit", "4", "--description", "edge agent")
	if res.err != nil {
		t.Fatalf("edit: %v\n%s", res.err, res.out)
	}
	if !strings.Contains(res.out, "revision 2") || !strings.Contains(res.out, "ACME edge agent") {
		t.Fatalf("unexpected edit output:\n%s", res.out)
	}

	res = run(t, store, nil, "list")
	if res.err != nil {
		t.Fatalf("list: %v", res.err)
	}
	for _, want := range []string{"VERSION", "agent", "1.0.0", "ACME"} {
		if !strings.Contains(res.out, want) {
			t.Fatalf("expected %q in list:\n%s", want, res.out)
		}
	}
}

func TestAdd_MissingFields(t *testing.T) {
	res := run(t, storePath(t), nil, "add", "--type", "OS")
	if !errors.Is(res.err, errValidation) {
		t.Fatalf("expected validation error, got %v", res.err)
	}
	for _, want := range []string{"name: Name is required", "version: Version is required", "Mandatory details are missing"} {
		if !strings.Contains(res.out, want) {
			t.Fatalf("expected %q in output:\n%s", want, res.out)
		}
	}
}

func TestEdit_UnknownModule(t *testing.T) {
	res := run(t, storePath(t), nil, "edit", "42")
	if res.err == nil {
		t.Fatalf("expected error for unknown module")
	}
}

func TestTypesCreateAndDelete(t *testing.T) {
	store := storePath(t)
	if res := run(t, store, nil, "types", "create", "Firmware", "--max-assignments", "1"); res.err != nil {
		t.Fatalf("create type: %v", res.err)
	}
	if res := run(t, store, nil, "add", "--type", "Firmware", "--name", "fw", "--version", "2.0"); res.err != nil {
		t.Fatalf("add: %v\n%s", res.err, res.out)
	}
	if res := run(t, store, nil, "types", "delete", "Firmware"); res.err != nil {
		t.Fatalf("delete type: %v", res.err)
	}

	res := run(t, store, nil, "list")
	if !strings.Contains(res.out, "Firmware (deleted)") {
		t.Fatalf("expected deleted type marker:\n%s", res.out)
	}
	res = run(t, store, nil, "render", "--renderer", "json", "--id", "5")
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	if !strings.Contains(res.out, `"value": "Firmware"`) {
		t.Fatalf("expected deleted type among options:\n%s", res.out)
	}
}

func TestRender_HTML(t *testing.T) {
	res := run(t, storePath(t), nil, "render", "--locale", "de")
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	if !strings.Contains(res.out, "Softwaremodul") || !strings.Contains(res.out, `name="version"`) {
		t.Fatalf("unexpected html:\n%s", res.out)
	}
}

func TestAdd_Interactive(t *testing.T) {
	store := storePath(t)
	driver := &scriptedDriver{
		selects:   []int{1, 1},
		inputs:    []string{"agent", "1.0.0", "", "agent", "1.0.1", ""},
		textAreas: []string{"", ""},
		confirms:  []bool{true, true},
	}
	run(t, store, nil, "add", "--type", "OS", "--name", "agent", "--version", "1.0.0")

	res := run(t, store, driver, "add", "--interactive")
	if res.err != nil {
		t.Fatalf("interactive add: %v\n%s", res.err, res.out)
	}
	if !strings.Contains(res.out, "already exists") || !strings.Contains(res.out, "agent:1.0.1 saved successfully") {
		t.Fatalf("unexpected interactive output:\n%s", res.out)
	}
	if !driver.sawInfo("already exists") {
		t.Fatalf("expected duplicate shown while reprompting, got %v", driver.infos)
	}
}

func TestAdd_InteractiveAbort(t *testing.T) {
	driver := &scriptedDriver{
		selects:   []int{0},
		inputs:    []string{"agent", "1.0.0", ""},
		textAreas: []string{""},
		confirms:  []bool{false},
	}
	res := run(t, storePath(t), driver, "add", "-i")
	if res.err != nil {
		t.Fatalf("abort should not fail: %v", res.err)
	}
	if !strings.Contains(res.out, "Aborted") {
		t.Fatalf("expected abort message:\n%s", res.out)
	}
}

type scriptedDriver struct {
	selects   []int
	inputs    []string
	textAreas []string
	confirms  []bool
	infos     []string
}

func (s *scriptedDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	value := s.inputs[0]
	s.inputs = s.inputs[1:]
	return value, nil
}

func (s *scriptedDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	if len(s.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	value := s.confirms[0]
	s.confirms = s.confirms[1:]
	return value, nil
}

func (s *scriptedDriver) Select(_ context.Context, _ tui.SelectConfig) (int, error) {
	if len(s.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	value := s.selects[0]
	s.selects = s.selects[1:]
	return value, nil
}

func (s *scriptedDriver) TextArea(_ context.Context, _ tui.TextAreaConfig) (string, error) {
	if len(s.textAreas) == 0 {
		return "", errors.New("no text scripted")
	}
	value := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return value, nil
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func (s *scriptedDriver) sawInfo(fragment string) bool {
	for _, info := range s.infos {
		if strings.Contains(info, fragment) {
			return true
		}
	}
	return false
}
