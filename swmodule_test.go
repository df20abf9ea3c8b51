package swmodule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-swmodule/internal/config"
	"github.com/goliatone/go-swmodule/pkg/dialog"
	"github.com/goliatone/go-swmodule/pkg/notify"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "modules.yaml")
	app, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

func TestApp_DialogSavePersistsAndPublishes(t *testing.T) {
	app := newTestApp(t)
	recorder := &notify.Recorder{}

	d, err := app.NewDialog(context.Background(), "", recorder)
	if err != nil {
		t.Fatalf("new dialog: %v", err)
	}
	if err := d.OpenAdd(context.Background()); err != nil {
		t.Fatalf("open add: %v", err)
	}
	d.Bind(dialog.Values{Type: "OS", Name: "yocto", Version: "4.0.1"})
	module, err := d.Save(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if module.CreatedBy != "console" {
		t.Fatalf("unexpected creator %q", module.CreatedBy)
	}

	reopened, err := New(context.Background(), app.Config, nil)
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	stored, err := reopened.Store.FindModule(context.Background(), module.ID)
	if err != nil {
		t.Fatalf("find persisted module: %v", err)
	}
	if stored.NameVersion() != "yocto:4.0.1" {
		t.Fatalf("unexpected persisted module %s", stored.NameVersion())
	}
	if got := recorder.Notifications(); len(got) != 1 || got[0].Level != notify.LevelSuccess {
		t.Fatalf("unexpected notifications %+v", got)
	}
	n, err := testutil.GatherAndCount(app.Metrics.Registry(), "swmodule_events_published_total")
	if err != nil || n != 1 {
		t.Fatalf("expected one events series, got %d (%v)", n, err)
	}
}

func TestApp_RenderDialog(t *testing.T) {
	app := newTestApp(t)
	d, err := app.NewDialog(context.Background(), "de", &notify.Recorder{})
	if err != nil {
		t.Fatalf("new dialog: %v", err)
	}
	if err := d.OpenAdd(context.Background()); err != nil {
		t.Fatalf("open add: %v", err)
	}

	html, err := app.RenderDialog(context.Background(), d, "vanilla")
	if err != nil {
		t.Fatalf("render vanilla: %v", err)
	}
	if !strings.Contains(string(html), "Softwaremodul") || strings.Contains(string(html), "<!DOCTYPE html>") {
		t.Fatalf("unexpected html:\n%s", html)
	}

	payload, err := app.RenderDialog(context.Background(), d, "json")
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if doc["locale"] != "de" {
		t.Fatalf("unexpected locale %v", doc["locale"])
	}

	if _, err := app.RenderDialog(context.Background(), d, "pdf"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestApp_NewServerSharesStore(t *testing.T) {
	app := newTestApp(t)
	srv, err := app.NewServer(context.Background())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/software-modules", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("unexpected list response %d %q", rec.Code, rec.Body.String())
	}
}

func TestNew_RejectsUnknownTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Name = "missing"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}
