package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-swmodule/internal/sanitize"
	"github.com/goliatone/go-swmodule/pkg/events"
	"github.com/goliatone/go-swmodule/pkg/i18n"
	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/notify"
	"github.com/goliatone/go-swmodule/pkg/render"
	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

// Mode names reported to observers and templates.
const (
	ModeNew  = "new"
	ModeEdit = "edit"
)

// RevisionField is the hidden field carrying the optimistic lock revision.
const RevisionField = "_revision"

// EventSource identifies the dialog as publisher of events.
const EventSource = "softwaremodule.dialog"

// Observer receives save outcomes, e.g. for metrics.
type Observer interface {
	SaveCompleted(mode string, elapsed time.Duration, err error)
	DuplicateRejected()
	ValidationFailed()
}

// Values are the submitted or displayed dialog inputs.
type Values struct {
	Type        string
	Name        string
	Version     string
	Vendor      string
	Description string
	// Revision is the optimistic lock revision the edit form was rendered
	// with; zero skips the check.
	Revision int
}

// ValuesFromForm reads Values from a decoded form post.
func ValuesFromForm(form url.Values) Values {
	revision, _ := strconv.Atoi(form.Get(RevisionField))
	return Values{
		Type:        form.Get(FieldType),
		Name:        form.Get(FieldName),
		Version:     form.Get(FieldVersion),
		Vendor:      form.Get(FieldVendor),
		Description: form.Get(FieldDescription),
		Revision:    revision,
	}
}

// Map returns the values keyed by field name.
func (v Values) Map() map[string]any {
	return map[string]any{
		FieldType:        v.Type,
		FieldName:        v.Name,
		FieldVersion:     v.Version,
		FieldVendor:      v.Vendor,
		FieldDescription: v.Description,
	}
}

// Option configures a Dialog.
type Option func(*Dialog)

// WithRepository sets the entity service. Required.
func WithRepository(repo softwaremodule.Repository) Option {
	return func(d *Dialog) { d.repo = repo }
}

// WithFactory overrides the entity factory.
func WithFactory(factory softwaremodule.Factory) Option {
	return func(d *Dialog) {
		if factory != nil {
			d.factory = factory
		}
	}
}

// WithNotifier sets the user notification sink.
func WithNotifier(notifier notify.Notifier) Option {
	return func(d *Dialog) {
		if notifier != nil {
			d.notifier = notifier
		}
	}
}

// WithPublisher sets the event channel.
func WithPublisher(publisher events.Publisher) Option {
	return func(d *Dialog) {
		if publisher != nil {
			d.publisher = publisher
		}
	}
}

// WithTranslator sets the message lookup and the locale used for it.
func WithTranslator(translator render.Translator, locale string) Option {
	return func(d *Dialog) {
		d.translator = translator
		d.locale = locale
	}
}

// WithForms reuses forms loaded once with LoadForms.
func WithForms(forms *Forms) Option {
	return func(d *Dialog) { d.forms = forms }
}

// WithStrictVersions rejects versions that are not semantic versions.
func WithStrictVersions(enabled bool) Option {
	return func(d *Dialog) { d.strictVersions = enabled }
}

// WithObserver reports save outcomes.
func WithObserver(observer Observer) Option {
	return func(d *Dialog) {
		if observer != nil {
			d.observer = observer
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dialog) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithActor names the user recorded as creator or last modifier.
func WithActor(actor string) Option {
	return func(d *Dialog) { d.actor = strings.TrimSpace(actor) }
}

// Dialog is the add/edit controller for one software module.
type Dialog struct {
	repo           softwaremodule.Repository
	factory        softwaremodule.Factory
	notifier       notify.Notifier
	publisher      events.Publisher
	translator     render.Translator
	locale         string
	forms          *Forms
	strictVersions bool
	observer       Observer
	logger         *log.Logger
	actor          string

	editing     bool
	moduleID    softwaremodule.ID
	revision    int
	values      Values
	typeOptions []string
}

// New constructs a Dialog. Forms are loaded from the embedded descriptor
// unless WithForms is given.
func New(ctx context.Context, options ...Option) (*Dialog, error) {
	d := &Dialog{
		notifier:  notify.Multi{},
		publisher: nopPublisher{},
		observer:  nopObserver{},
		logger:    log.New(io.Discard),
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	if d.repo == nil {
		return nil, errors.New("dialog: repository is required")
	}
	if d.factory == nil {
		d.factory = softwaremodule.DefaultFactory{Actor: d.actor}
	}
	if d.forms == nil {
		forms, err := LoadForms(ctx, "")
		if err != nil {
			return nil, err
		}
		d.forms = forms
	}
	return d, nil
}

// Editing reports whether the dialog is in edit mode.
func (d *Dialog) Editing() bool {
	return d.editing
}

// Mode returns ModeEdit or ModeNew.
func (d *Dialog) Mode() string {
	if d.editing {
		return ModeEdit
	}
	return ModeNew
}

// ModuleID is the module being edited, zero in new mode.
func (d *Dialog) ModuleID() softwaremodule.ID {
	return d.moduleID
}

// Values returns the current field values.
func (d *Dialog) Values() Values {
	v := d.values
	v.Revision = d.revision
	return v
}

// TypeOptions returns the selectable type names.
func (d *Dialog) TypeOptions() []string {
	return append([]string(nil), d.typeOptions...)
}

func (d *Dialog) reset() {
	d.editing = false
	d.moduleID = 0
	d.revision = 0
	d.values = Values{}
	d.typeOptions = nil
}

// OpenAdd resets the dialog into new mode.
func (d *Dialog) OpenAdd(ctx context.Context) error {
	d.reset()
	return d.loadTypes(ctx)
}

// OpenEdit resets the dialog into edit mode and populates it from the stored
// module. A deleted module type is added to the type options so the
// current value stays selectable.
func (d *Dialog) OpenEdit(ctx context.Context, id softwaremodule.ID) error {
	d.reset()
	d.editing = true
	d.moduleID = id

	module, err := d.repo.FindModule(ctx, id)
	if err != nil {
		return fmt.Errorf("dialog: open module %s: %w", id, err)
	}
	if err := d.loadTypes(ctx); err != nil {
		return err
	}

	d.revision = module.OptLockRevision
	d.values = Values{
		Type:        module.TypeName(),
		Name:        module.Name,
		Version:     module.Version,
		Vendor:      sanitize.TrimToEmpty(module.Vendor),
		Description: sanitize.TrimToEmpty(module.Description),
	}
	if module.Type != nil && module.Type.Deleted && !contains(d.typeOptions, module.Type.Name) {
		d.typeOptions = append(d.typeOptions, module.Type.Name)
	}
	return nil
}

func (d *Dialog) loadTypes(ctx context.Context) error {
	types, err := d.repo.ListTypes(ctx)
	if err != nil {
		return fmt.Errorf("dialog: list module types: %w", err)
	}
	d.typeOptions = make([]string, 0, len(types))
	for _, typ := range types {
		if !typ.Deleted {
			d.typeOptions = append(d.typeOptions, typ.Name)
		}
	}
	return nil
}

// Bind copies submitted values into the dialog. In edit mode only vendor,
// description and the revision are taken.
func (d *Dialog) Bind(values Values) {
	d.values.Vendor = values.Vendor
	d.values.Description = values.Description
	if d.editing {
		if values.Revision != 0 {
			d.revision = values.Revision
		}
		return
	}
	d.values.Type = values.Type
	d.values.Name = values.Name
	d.values.Version = values.Version
}

// Form returns the form model for the current state: type options, the
// disabled flags of edit mode and the current values as defaults.
func (d *Dialog) Form() model.FormModel {
	source := d.forms.Create
	if d.editing {
		source = d.forms.Update
	}
	form := cloneForm(source)
	form.Endpoint = strings.ReplaceAll(form.Endpoint, "{id}", d.moduleID.String())

	current := d.values.Map()
	for i := range form.Fields {
		field := &form.Fields[i]
		field.Default = current[field.Name]
		switch field.Name {
		case FieldType:
			field.Options = make([]model.Option, 0, len(d.typeOptions))
			for _, name := range d.typeOptions {
				field.Options = append(field.Options, model.Option{Value: name, Label: name})
			}
			field.Disabled = d.editing
		case FieldName, FieldVersion:
			field.Disabled = d.editing
		}
	}
	return form
}

// RenderOptions returns the per-request render data for the current state.
func (d *Dialog) RenderOptions() render.RenderOptions {
	opts := render.RenderOptions{
		Values:     d.values.Map(),
		Locale:     d.locale,
		Translator: d.translator,
	}
	if d.editing {
		opts.HiddenFields = render.MergeHiddenFields(nil, render.VersionField(RevisionField, d.revision))
	}
	return opts
}

// CanSave reports whether the current values may be saved: always in edit
// mode, otherwise only when no non-deleted module shares name, version and
// type. A duplicate is reported through the notifier.
func (d *Dialog) CanSave(ctx context.Context) (bool, error) {
	if d.editing {
		return true, nil
	}
	duplicate, err := d.isDuplicate(ctx)
	if err != nil {
		return false, err
	}
	return !duplicate, nil
}

func (d *Dialog) isDuplicate(ctx context.Context) (bool, error) {
	name := sanitize.TrimToEmpty(d.values.Name)
	version := sanitize.TrimToEmpty(d.values.Version)

	typ, err := d.repo.FindTypeByName(ctx, sanitize.TrimToEmpty(d.values.Type))
	if err != nil && !errors.Is(err, softwaremodule.ErrNotFound) {
		return false, fmt.Errorf("dialog: resolve module type: %w", err)
	}
	if errors.Is(err, softwaremodule.ErrNotFound) {
		typ = nil
	}

	_, err = d.repo.FindModuleByNameAndVersion(ctx, name, version, typ)
	switch {
	case errors.Is(err, softwaremodule.ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("dialog: duplicate check: %w", err)
	}

	d.notifier.ValidationError(ctx, d.message("message.duplicate.softwaremodule", name, version))
	d.observer.DuplicateRejected()
	d.logger.Warn("duplicate software module", "name", name, "version", version, "type", d.values.Type)
	return true, nil
}

// Save validates, runs CanSave and then creates or updates the module.
// Validation failures and duplicates return *ValidationError; repository
// failures are wrapped and returned.
func (d *Dialog) Save(ctx context.Context) (*softwaremodule.SoftwareModule, error) {
	if verr := d.validate(ctx); verr != nil {
		d.observer.ValidationFailed()
		return nil, verr
	}
	ok, err := d.CanSave(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.duplicateError()
	}
	if d.editing {
		return d.update(ctx)
	}
	return d.create(ctx)
}

func (d *Dialog) create(ctx context.Context) (*softwaremodule.SoftwareModule, error) {
	typ, err := d.repo.FindTypeByName(ctx, sanitize.TrimToEmpty(d.values.Type))
	if errors.Is(err, softwaremodule.ErrNotFound) || (err == nil && typ.Deleted) {
		d.observer.ValidationFailed()
		verr := &ValidationError{}
		verr.addField(FieldType, d.message("message.type.unknown", d.values.Type))
		return nil, verr
	}
	if err != nil {
		return nil, fmt.Errorf("dialog: resolve module type: %w", err)
	}

	module := d.factory.NewModule(typ,
		sanitize.TrimToEmpty(d.values.Name),
		sanitize.TrimToEmpty(d.values.Version),
		sanitize.TrimToEmpty(d.values.Vendor),
		sanitize.TrimToEmpty(d.values.Description),
	)

	started := time.Now()
	created, err := d.repo.CreateModule(ctx, module)
	d.observer.SaveCompleted(ModeNew, time.Since(started), err)
	if errors.Is(err, softwaremodule.ErrDuplicate) {
		d.notifier.ValidationError(ctx, d.message("message.duplicate.softwaremodule", module.Name, module.Version))
		return nil, d.duplicateError()
	}
	if err != nil {
		return nil, fmt.Errorf("dialog: create module: %w", err)
	}

	d.succeeded(ctx, events.NewEntity, created)
	return created, nil
}

func (d *Dialog) update(ctx context.Context) (*softwaremodule.SoftwareModule, error) {
	module, err := d.repo.FindModule(ctx, d.moduleID)
	if err != nil {
		return nil, fmt.Errorf("dialog: load module %s: %w", d.moduleID, err)
	}
	module.Vendor = sanitize.TrimToEmpty(d.values.Vendor)
	module.Description = sanitize.TrimToEmpty(d.values.Description)
	if d.revision != 0 {
		module.OptLockRevision = d.revision
	}
	if d.actor != "" {
		module.LastModifiedBy = d.actor
	}

	started := time.Now()
	updated, err := d.repo.UpdateModule(ctx, module)
	d.observer.SaveCompleted(ModeEdit, time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("dialog: update module %s: %w", d.moduleID, err)
	}

	d.revision = updated.OptLockRevision
	d.values.Vendor = updated.Vendor
	d.values.Description = updated.Description
	d.succeeded(ctx, events.UpdatedEntity, updated)
	return updated, nil
}

func (d *Dialog) succeeded(ctx context.Context, eventType events.EventType, module *softwaremodule.SoftwareModule) {
	d.notifier.Success(ctx, d.message("message.save.success", module.NameVersion()))
	d.publisher.Publish(context.WithoutCancel(ctx), events.SoftwareModuleEvent{
		Type:   eventType,
		Module: module.Clone(),
		Source: EventSource,
	})
	d.logger.Info("software module saved",
		"mode", d.Mode(), "id", module.ID, "module", module.NameVersion(), "revision", module.OptLockRevision)
}

func (d *Dialog) duplicateError() *ValidationError {
	name := sanitize.TrimToEmpty(d.values.Name)
	version := sanitize.TrimToEmpty(d.values.Version)
	return &ValidationError{
		Form:      []string{d.message("message.duplicate.softwaremodule", name, version)},
		Duplicate: true,
	}
}

// validate checks required fields, length limits, markup in free text and,
// when enabled, the semantic version format. Disabled fields of edit mode are
// skipped.
func (d *Dialog) validate(ctx context.Context) *ValidationError {
	form := d.Form()
	current := d.values.Map()
	verr := &ValidationError{}
	missing := false

	for _, field := range form.Fields {
		if field.Disabled {
			continue
		}
		raw, _ := current[field.Name].(string)
		value := sanitize.TrimToEmpty(raw)
		label := d.fieldLabel(field)
		if value == "" {
			if field.Required {
				missing = true
				verr.addField(field.Name, d.message("message.field.required", label))
			}
			continue
		}
		if limit := field.MaxLength(); limit > 0 && utf8.RuneCountInString(value) > limit {
			verr.addField(field.Name, d.message("message.field.too.long", label, limit))
		}
		if isFreeText(field.Name) && sanitize.HasMarkup(value) {
			verr.addField(field.Name, d.message("message.field.markup", label))
		}
		if field.Name == FieldVersion && d.strictVersions && !softwaremodule.IsSemanticVersion(value) {
			verr.addField(field.Name, d.message("message.version.not.semantic", value))
		}
	}

	if verr.empty() {
		return nil
	}
	if missing {
		d.notifier.ValidationError(ctx, d.message("message.mandatory.check"))
	}
	return verr
}

func isFreeText(name string) bool {
	return name == FieldVendor || name == FieldDescription
}

func (d *Dialog) fieldLabel(field model.Field) string {
	if key := field.UIHint("labelKey"); key != "" && d.translator != nil {
		if label, err := d.translator.Translate(d.locale, key); err == nil && label != "" {
			return label
		}
	}
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func (d *Dialog) message(key string, args ...any) string {
	if d.translator != nil {
		if msg, err := d.translator.Translate(d.locale, key, args...); err == nil {
			return msg
		}
	}
	d.logger.Debug("missing translation", "locale", d.locale, "key", key)
	if len(args) == 0 {
		return key
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = "{" + strconv.Itoa(i) + "}"
	}
	return i18n.Format(key+" "+strings.Join(placeholders, " "), args...)
}

func cloneForm(form model.FormModel) model.FormModel {
	out := form
	out.Fields = make([]model.Field, len(form.Fields))
	copy(out.Fields, form.Fields)
	out.UIHints = copyHints(form.UIHints)
	out.Metadata = copyHints(form.Metadata)
	for i := range out.Fields {
		out.Fields[i].UIHints = copyHints(out.Fields[i].UIHints)
		out.Fields[i].Metadata = copyHints(out.Fields[i].Metadata)
		out.Fields[i].Options = nil
	}
	return out
}

func copyHints(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.SoftwareModuleEvent) {}

type nopObserver struct{}

func (nopObserver) SaveCompleted(string, time.Duration, error) {}
func (nopObserver) DuplicateRejected()                         {}
func (nopObserver) ValidationFailed()                          {}
