// Package events broadcasts software module lifecycle notifications from the
// dialog to other views (tables, detail panes, metrics). Delivery is
// synchronous and ordered by subscription.
package events

import (
	"context"
	"sync"

	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

// EventType enumerates the entity lifecycle transitions.
type EventType string

const (
	NewEntity     EventType = "new_entity"
	UpdatedEntity EventType = "updated_entity"
	RemovedEntity EventType = "removed_entity"
)

// SoftwareModuleEvent carries the entity as it was persisted.
type SoftwareModuleEvent struct {
	Type   EventType                      `json:"type"`
	Module *softwaremodule.SoftwareModule `json:"module"`
	// Source names the publisher, e.g. "dialog".
	Source string `json:"source,omitempty"`
}

// Handler receives published events.
type Handler func(ctx context.Context, event SoftwareModuleEvent)

// Publisher is the side of the bus the dialog depends on.
type Publisher interface {
	Publish(ctx context.Context, event SoftwareModuleEvent)
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is an in-process publish/subscribe channel safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

var _ Publisher = (*Bus)(nil)

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler and returns a function removing it. The
// returned function is idempotent.
func (b *Bus) Subscribe(handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers event to every subscriber registered at call time. Each
// handler receives its own copy of the module. Events describe changes that
// are already stored, so delivery ignores cancellation of ctx.
func (b *Bus) Publish(ctx context.Context, event SoftwareModuleEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, sub := range subs {
		delivered := event
		delivered.Module = event.Module.Clone()
		sub.handler(ctx, delivered)
	}
}

// Len reports the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
