// Package swmodule wires the software module dialog with its collaborators:
// the in-memory store, the event bus, metrics, message bundles and the
// renderers. Front ends (the HTTP console and the CLI) start from App.
package swmodule

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-swmodule/internal/config"
	"github.com/goliatone/go-swmodule/internal/memstore"
	"github.com/goliatone/go-swmodule/internal/metrics"
	"github.com/goliatone/go-swmodule/internal/server"
	"github.com/goliatone/go-swmodule/pkg/dialog"
	"github.com/goliatone/go-swmodule/pkg/events"
	"github.com/goliatone/go-swmodule/pkg/i18n"
	"github.com/goliatone/go-swmodule/pkg/notify"
	"github.com/goliatone/go-swmodule/pkg/render"
	"github.com/goliatone/go-swmodule/pkg/renderers/jsonform"
	"github.com/goliatone/go-swmodule/pkg/renderers/vanilla"
)

// RenderOptions is re-exported for callers rendering dialogs themselves.
type RenderOptions = render.RenderOptions

// App holds the shared, concurrency safe collaborators. Dialogs are cheap
// and created per request or terminal session.
type App struct {
	Config   config.Config
	Store    *memstore.Store
	Bus      *events.Bus
	Metrics  *metrics.Metrics
	Bundle   *i18n.Bundle
	Forms    *dialog.Forms
	Selector *vanilla.Selector
	Logger   *log.Logger
}

// NewLogger returns a charmbracelet logger writing to w with the given
// component prefix.
func NewLogger(w io.Writer, level log.Level, prefix string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}

// New builds the collaborators described by cfg.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store, err := memstore.New(
		memstore.WithSnapshotPath(cfg.Store.Path),
		memstore.WithTypes(memstore.DefaultTypes()...),
	)
	if err != nil {
		return nil, fmt.Errorf("swmodule: open store: %w", err)
	}

	bundle, err := i18n.Default(i18n.WithDefaultLocale(cfg.Locale))
	if err != nil {
		return nil, fmt.Errorf("swmodule: load messages: %w", err)
	}

	forms, err := dialog.LoadForms(ctx, cfg.Dialog.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("swmodule: %w", err)
	}

	selector, err := vanilla.NewSelector()
	if err != nil {
		return nil, fmt.Errorf("swmodule: %w", err)
	}
	if _, err := selector.Select(cfg.Theme.Name, cfg.Theme.Variant); err != nil {
		return nil, fmt.Errorf("swmodule: %w", err)
	}

	bus := events.NewBus()
	m := metrics.New()
	m.Subscribe(bus)
	bus.Subscribe(func(_ context.Context, event events.SoftwareModuleEvent) {
		logger.Debug("event published", "type", event.Type, "module", event.Module.NameVersion(), "source", event.Source)
	})

	return &App{
		Config:   cfg,
		Store:    store,
		Bus:      bus,
		Metrics:  m,
		Bundle:   bundle,
		Forms:    forms,
		Selector: selector,
		Logger:   logger,
	}, nil
}

// NewDialog returns a dialog bound to the app collaborators. Notifications
// go to notifier and to the log.
func (a *App) NewDialog(ctx context.Context, locale string, notifier notify.Notifier) (*dialog.Dialog, error) {
	if locale == "" {
		locale = a.Config.Locale
	}
	return dialog.New(ctx,
		dialog.WithRepository(a.Store),
		dialog.WithForms(a.Forms),
		dialog.WithNotifier(notify.Multi{notifier, notify.LogNotifier{Logger: a.Logger}}),
		dialog.WithPublisher(a.Bus),
		dialog.WithTranslator(a.Bundle, locale),
		dialog.WithObserver(a.Metrics),
		dialog.WithLogger(a.Logger.WithPrefix("dialog")),
		dialog.WithStrictVersions(a.Config.Validation.StrictVersions),
		dialog.WithActor(a.Config.Actor),
	)
}

// NewServer returns the HTTP console sharing the app collaborators.
func (a *App) NewServer(ctx context.Context) (*server.Server, error) {
	return server.New(ctx, a.Store,
		server.WithForms(a.Forms),
		server.WithBundle(a.Bundle, a.Config.Locale),
		server.WithBus(a.Bus),
		server.WithMetrics(a.Metrics),
		server.WithLogger(a.Logger.WithPrefix("http")),
		server.WithTheme(a.Selector, a.Config.Theme.Name, a.Config.Theme.Variant),
		server.WithStrictVersions(a.Config.Validation.StrictVersions),
		server.WithActor(a.Config.Actor),
	)
}

// Renderers returns a registry with the standalone HTML renderer (no page
// wrapper, inline stylesheet) and the JSON renderer.
func (a *App) Renderers() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("swmodule: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(jsonform.New(jsonform.WithIndent("  "))); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderDialog renders the dialog's current state with the named renderer
// and the configured theme.
func (a *App) RenderDialog(ctx context.Context, d *dialog.Dialog, rendererName string) ([]byte, error) {
	registry, err := a.Renderers()
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, fmt.Errorf("swmodule: %w", err)
	}
	selection, err := a.Selector.Select(a.Config.Theme.Name, a.Config.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("swmodule: %w", err)
	}
	opts := d.RenderOptions()
	opts.Theme = vanilla.RendererConfig(selection, vanilla.DefaultPartials())
	return renderer.Render(ctx, d.Form(), opts)
}
