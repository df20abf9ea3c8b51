package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Fatalf("unexpected log level %v", cfg.LogLevel())
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swmodule.yaml")
	content := `server:
  addr: ":9000"
locale: de
theme:
  name: console
  variant: dark
validation:
  strict_versions: true
store:
  path: /tmp/modules.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SWMODULE_LOCALE", "en")
	t.Setenv("SWMODULE_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("server.addr", ":8080", "")
	if err := flags.Parse([]string{"--server.addr=:7000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(context.Background(), LoadOptions{File: path, Flags: flags})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Server.Addr = ":7000"
	want.Locale = "en"
	want.Theme.Variant = "dark"
	want.Validation.StrictVersions = true
	want.Store.Path = "/tmp/modules.yaml"
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Fatalf("unexpected log level %v", cfg.LogLevel())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), LoadOptions{File: filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("SWMODULE_LOG_LEVEL", "loud")
	if _, err := Load(context.Background(), LoadOptions{}); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, LoadOptions{}); err == nil {
		t.Fatalf("expected canceled error")
	}
}
