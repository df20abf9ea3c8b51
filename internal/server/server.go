// Package server hosts the software module dialog over HTTP: the dialog
// pages, form posts, a JSON listing, health and metrics endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-swmodule/internal/metrics"
	"github.com/goliatone/go-swmodule/pkg/dialog"
	"github.com/goliatone/go-swmodule/pkg/events"
	"github.com/goliatone/go-swmodule/pkg/i18n"
	"github.com/goliatone/go-swmodule/pkg/notify"
	"github.com/goliatone/go-swmodule/pkg/render"
	"github.com/goliatone/go-swmodule/pkg/renderers/jsonform"
	"github.com/goliatone/go-swmodule/pkg/renderers/vanilla"
	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

// Repository is the store the console needs: the dialog's entity service
// plus listing.
type Repository interface {
	softwaremodule.Repository
	softwaremodule.ModuleLister
}

// Option configures the Server.
type Option func(*Server)

// WithForms reuses preloaded dialog forms.
func WithForms(forms *dialog.Forms) Option {
	return func(s *Server) { s.forms = forms }
}

// WithRegistry replaces the renderer registry. The first registered
// renderer answers requests without a matching Accept header.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) { s.registry = registry }
}

// WithBundle sets the message bundle and the locale used when a request
// names none.
func WithBundle(bundle *i18n.Bundle, locale string) Option {
	return func(s *Server) {
		s.bundle = bundle
		if strings.TrimSpace(locale) != "" {
			s.locale = locale
		}
	}
}

// WithBus sets the event bus dialogs publish to.
func WithBus(bus *events.Bus) Option {
	return func(s *Server) { s.bus = bus }
}

// WithMetrics sets the collectors. The caller subscribes them to the bus;
// collectors created by New are subscribed automatically.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTheme selects the default theme and variant. Requests may override
// both with the "theme" and "variant" query parameters.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(s *Server) {
		s.selector = selector
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithStrictVersions enables semantic version validation in dialogs.
func WithStrictVersions(enabled bool) Option {
	return func(s *Server) { s.strictVersions = enabled }
}

// WithActor names the user recorded on saved modules.
func WithActor(actor string) Option {
	return func(s *Server) { s.actor = actor }
}

// Server serves the console.
type Server struct {
	repo           Repository
	forms          *dialog.Forms
	registry       *render.Registry
	bundle         *i18n.Bundle
	locale         string
	bus            *events.Bus
	metrics        *metrics.Metrics
	logger         *log.Logger
	selector       theme.ThemeSelector
	themeName      string
	themeVariant   string
	strictVersions bool
	actor          string

	flashes *flashStore
}

// New wires the console with defaults for every unset collaborator.
func New(ctx context.Context, repo Repository, options ...Option) (*Server, error) {
	if repo == nil {
		return nil, errors.New("server: repository is required")
	}
	s := &Server{repo: repo, locale: "en", flashes: newFlashStore()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.forms == nil {
		forms, err := dialog.LoadForms(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.forms = forms
	}
	if s.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		s.registry = registry
	}
	if s.bundle == nil {
		bundle, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.bundle = bundle
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
		s.metrics.Subscribe(s.bus)
	}
	if s.selector == nil {
		selector, err := vanilla.NewSelector()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.selector = selector
	}
	return s, nil
}

// DefaultRegistry registers the HTML dialog page (the fallback) and the
// JSON form renderer.
func DefaultRegistry() (*render.Registry, error) {
	html, err := vanilla.New(
		vanilla.WithPage(true),
		vanilla.WithStylesheetURL("/assets/"+vanilla.StylesheetName),
	)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if err := registry.Register(jsonform.New()); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	return registry, nil
}

// Bus exposes the event bus so other views can subscribe.
func (s *Server) Bus() *events.Bus {
	return s.bus
}

// Handler returns the console routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /software-modules/new", s.handleNew)
	mux.HandleFunc("GET /software-modules/{id}/edit", s.handleEdit)
	mux.HandleFunc("POST /software-modules", s.handleCreate)
	mux.HandleFunc("POST /software-modules/{id}", s.handleUpdate)
	mux.HandleFunc("GET /api/software-modules", s.handleList)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is canceled, then shuts down within grace.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(started))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

const (
	flashTTL        = 5 * time.Minute
	flashMaxEntries = 1024
)

// flashStore keeps notifications across the post/redirect/get hop, keyed
// by module. Entries expire after ttl; beyond max entries the oldest is
// dropped.
type flashStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	max   int
	now   func() time.Time
	items map[softwaremodule.ID]flashEntry
}

type flashEntry struct {
	notes   []notify.Notification
	expires time.Time
}

func newFlashStore() *flashStore {
	return &flashStore{
		ttl:   flashTTL,
		max:   flashMaxEntries,
		now:   time.Now,
		items: make(map[softwaremodule.ID]flashEntry),
	}
}

func (f *flashStore) put(id softwaremodule.ID, notes []notify.Notification) {
	if len(notes) == 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	f.prune(now)
	entry, ok := f.items[id]
	if !ok && len(f.items) >= f.max {
		f.evictOldest()
	}
	entry.notes = append(entry.notes, notes...)
	entry.expires = now.Add(f.ttl)
	f.items[id] = entry
}

func (f *flashStore) take(id softwaremodule.ID) []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.items[id]
	delete(f.items, id)
	if !ok || !f.now().Before(entry.expires) {
		return nil
	}
	return entry.notes
}

func (f *flashStore) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *flashStore) prune(now time.Time) {
	for id, entry := range f.items {
		if !now.Before(entry.expires) {
			delete(f.items, id)
		}
	}
}

func (f *flashStore) evictOldest() {
	var (
		oldest softwaremodule.ID
		first  time.Time
		found  bool
	)
	for id, entry := range f.items {
		if !found || entry.expires.Before(first) {
			oldest, first, found = id, entry.expires, true
		}
	}
	if found {
		delete(f.items, oldest)
	}
}
