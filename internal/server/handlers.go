package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-swmodule/pkg/dialog"
	"github.com/goliatone/go-swmodule/pkg/notify"
	"github.com/goliatone/go-swmodule/pkg/render"
	"github.com/goliatone/go-swmodule/pkg/renderers/vanilla"
	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	d, _, err := s.newDialog(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := d.OpenAdd(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, d, http.StatusOK, nil, nil)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	d, _, err := s.newDialog(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := d.OpenEdit(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, d, http.StatusOK, nil, s.flashes.take(id))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	d, recorder, err := s.newDialog(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := d.OpenAdd(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	d.Bind(dialog.ValuesFromForm(r.PostForm))
	s.save(w, r, d, recorder)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	d, recorder, err := s.newDialog(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := d.OpenEdit(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	d.Bind(dialog.ValuesFromForm(r.PostForm))
	s.save(w, r, d, recorder)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, d *dialog.Dialog, recorder *notify.Recorder) {
	module, err := d.Save(r.Context())
	var verr *dialog.ValidationError
	switch {
	case errors.As(err, &verr):
		s.render(w, r, d, http.StatusUnprocessableEntity, verr, recorder.Notifications())
		return
	case errors.Is(err, softwaremodule.ErrConflict):
		values := d.Values()
		conflict := &dialog.ValidationError{
			Form: []string{s.bundle.Get(s.requestLocale(r), "message.save.conflict", values.Name+":"+values.Version)},
		}
		s.render(w, r, d, http.StatusConflict, conflict, recorder.Notifications())
		return
	case err != nil:
		s.fail(w, r, err)
		return
	}

	s.flashes.put(module.ID, recorder.Notifications())
	http.Redirect(w, r, "/software-modules/"+module.ID.String()+"/edit", http.StatusSeeOther)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	includeDeleted, _ := strconv.ParseBool(r.URL.Query().Get("deleted"))
	modules, err := s.repo.ListModules(r.Context(), includeDeleted)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if modules == nil {
		modules = []softwaremodule.SoftwareModule{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(modules); err != nil {
		s.logger.Error("write json response", "err", err)
	}
}

func (s *Server) newDialog(r *http.Request) (*dialog.Dialog, *notify.Recorder, error) {
	recorder := &notify.Recorder{}
	d, err := dialog.New(r.Context(),
		dialog.WithRepository(s.repo),
		dialog.WithForms(s.forms),
		dialog.WithNotifier(notify.Multi{recorder, notify.LogNotifier{Logger: s.logger}}),
		dialog.WithPublisher(s.bus),
		dialog.WithTranslator(s.bundle, s.requestLocale(r)),
		dialog.WithObserver(s.metrics),
		dialog.WithLogger(s.logger),
		dialog.WithStrictVersions(s.strictVersions),
		dialog.WithActor(s.actor),
	)
	return d, recorder, err
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, d *dialog.Dialog, status int, verr *dialog.ValidationError, notes []notify.Notification) {
	renderer, err := s.registry.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}

	form := d.Form()
	opts := d.RenderOptions()
	opts.Theme = s.themeConfig(r)
	opts.CancelURL = cancelPath(d)
	for _, note := range notes {
		opts.Flash = append(opts.Flash, render.Flash{Level: string(note.Level), Message: note.Message})
	}
	verr.Apply(form, &opts)

	output, err := renderer.Render(r.Context(), form, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(output); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// cancelPath reloads the dialog from stored state, dropping unsaved input.
func cancelPath(d *dialog.Dialog) string {
	if d.Editing() {
		return "/software-modules/" + d.ModuleID().String() + "/edit"
	}
	return "/software-modules/new"
}

func (s *Server) themeConfig(r *http.Request) *theme.RendererConfig {
	name := firstNonEmpty(r.URL.Query().Get("theme"), s.themeName)
	variant := firstNonEmpty(r.URL.Query().Get("variant"), s.themeVariant)
	selection, err := s.selector.Select(name, variant)
	if err != nil {
		s.logger.Warn("theme selection failed, using default", "theme", name, "variant", variant, "err", err)
		selection, err = s.selector.Select("", "")
		if err != nil {
			return nil
		}
	}
	return vanilla.RendererConfig(selection, vanilla.DefaultPartials())
}

// requestLocale picks the "lang" query parameter, then the first
// Accept-Language tag, then the configured locale.
func (s *Server) requestLocale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return lang
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tag, _, _ := strings.Cut(strings.Split(header, ",")[0], ";")
		if tag = strings.TrimSpace(tag); tag != "" && tag != "*" {
			return tag
		}
	}
	return s.locale
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (softwaremodule.ID, bool) {
	id, err := softwaremodule.ParseID(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid software module id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, softwaremodule.ErrNotFound) {
		http.Error(w, "software module not found", http.StatusNotFound)
		return
	}
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
