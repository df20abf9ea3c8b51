package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-swmodule/pkg/model"
	"github.com/goliatone/go-swmodule/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions: each enabled
// field is prompted in form order and the collected values are serialized.
// Disabled fields are shown read-only and keep their current value.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	confirm      bool
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field and returns the serialized values.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(values)
}

// Collect runs the prompts and returns the values keyed by field name.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	form.Fields = append([]model.Field(nil), form.Fields...)
	for i := range form.Fields {
		form.Fields[i].UIHints = cloneHints(form.Fields[i].UIHints)
	}
	form.UIHints = cloneHints(form.UIHints)
	render.LocalizeFormModel(&form, opts)

	if title := form.UIHints["layout.title"]; title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return nil, err
		}
	}
	for _, message := range render.MergeFormErrors(opts.FormErrors) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}

	values := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		current := currentValue(field, opts.Values)
		if field.Disabled {
			values[field.Name] = current
			if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.InfoPrefix, displayLabel(field), current)); err != nil {
				return nil, err
			}
			continue
		}
		for _, message := range opts.Errors[field.Name] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+displayLabel(field)+": "+message); err != nil {
				return nil, err
			}
		}
		value, err := r.promptField(ctx, field, current)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}

	if r.confirm {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: confirmMessage(opts),
			Default: true,
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current string) (string, error) {
	label := displayLabel(field)
	help := displayHelp(field)
	rules := collectValidationRules(field)

	for {
		var (
			response string
			err      error
		)
		switch {
		case len(field.Options) > 0:
			response, err = r.promptSelect(ctx, field, current)
		case strings.EqualFold(field.UIHint("widget"), "textarea"):
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: help})
		default:
			response, err = r.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help})
		}
		if err != nil {
			return "", err
		}

		if err := rules.validate(response); err != nil {
			if infoErr := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, label, err)); infoErr != nil {
				return "", infoErr
			}
			current = response
			continue
		}
		return response, nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, current string) (string, error) {
	labels := make([]string, len(field.Options))
	defaultIndex := -1
	for i, option := range field.Options {
		labels[i] = option.Label
		if labels[i] == "" {
			labels[i] = option.Value
		}
		if option.Value == current {
			defaultIndex = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      labels,
		DefaultIndex: defaultIndex,
		Help:         displayHelp(field),
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", nil
	}
	return field.Options[idx].Value, nil
}

func (r *Renderer) serialize(values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, value)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

type validationRules struct {
	required bool
	minLen   int
	maxLen   int
	pattern  *regexp.Regexp
}

func collectValidationRules(field model.Field) validationRules {
	rules := validationRules{required: field.Required}
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMinLength:
			rules.minLen, _ = strconv.Atoi(v.Params["value"])
		case model.ValidationRuleMaxLength:
			rules.maxLen, _ = strconv.Atoi(v.Params["value"])
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.pattern = re
				}
			}
		}
	}
	return rules
}

func (r validationRules) validate(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if r.required {
			return errors.New("value is required")
		}
		return nil
	}
	length := utf8.RuneCountInString(trimmed)
	if r.minLen > 0 && length < r.minLen {
		return fmt.Errorf("must be at least %d characters", r.minLen)
	}
	if r.maxLen > 0 && length > r.maxLen {
		return fmt.Errorf("must be at most %d characters", r.maxLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(trimmed) {
		return fmt.Errorf("must match %s", r.pattern.String())
	}
	return nil
}

func currentValue(field model.Field, values map[string]any) string {
	if value, ok := values[field.Name]; ok && value != nil {
		return fmt.Sprint(value)
	}
	if field.Default != nil {
		return fmt.Sprint(field.Default)
	}
	return ""
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}

func confirmMessage(opts render.RenderOptions) string {
	if opts.Translator != nil {
		if msg, err := opts.Translator.Translate(opts.Locale, "button.save"); err == nil && msg != "" {
			return msg + "?"
		}
	}
	return "Save?"
}

func cloneHints(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func prettyPrint(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(values[key])
		b.WriteString("\n")
	}
	return b.String()
}
