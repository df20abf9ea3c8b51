// Package notify carries user-visible outcomes of dialog actions: success
// messages after a save and validation errors that block one.
package notify

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess         Level = "success"
	LevelValidationError Level = "validation_error"
)

// Notification is a single message shown to the user.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier is the sink the dialog reports to.
type Notifier interface {
	Success(ctx context.Context, message string)
	ValidationError(ctx context.Context, message string)
}

// Recorder collects notifications in order. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Success implements Notifier.
func (r *Recorder) Success(_ context.Context, message string) {
	r.add(LevelSuccess, message)
}

// ValidationError implements Notifier.
func (r *Recorder) ValidationError(_ context.Context, message string) {
	r.add(LevelValidationError, message)
}

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Drain returns and clears the recorded notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *log.Logger
}

// Success implements Notifier.
func (n LogNotifier) Success(_ context.Context, message string) {
	if n.Logger == nil {
		return
	}
	n.Logger.Info(message, "level", LevelSuccess)
}

// ValidationError implements Notifier.
func (n LogNotifier) ValidationError(_ context.Context, message string) {
	if n.Logger == nil {
		return
	}
	n.Logger.Warn(message, "level", LevelValidationError)
}

// Multi fans out to every non-nil notifier.
type Multi []Notifier

// Success implements Notifier.
func (m Multi) Success(ctx context.Context, message string) {
	for _, n := range m {
		if n != nil {
			n.Success(ctx, message)
		}
	}
}

// ValidationError implements Notifier.
func (m Multi) ValidationError(ctx context.Context, message string) {
	for _, n := range m {
		if n != nil {
			n.ValidationError(ctx, message)
		}
	}
}
