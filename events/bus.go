// Package events provides the synchronous event bus that drives component
// lifecycles. It has no build tags and runs the same in WASM and native tests.
package events

import (
	"errors"
	"fmt"
)

// ErrNoEvent is returned when emitting or unsubscribing an event that has no
// registered listeners.
var ErrNoEvent = errors.New("no such event")

// Handler receives the arguments passed to Emit.
type Handler func(args ...any)

// Subscription identifies a handler registered with On. Go functions are not
// comparable, so Off takes the subscription instead of the handler itself.
type Subscription uint64

type entry struct {
	id      Subscription
	handler Handler
}

// Bus is a minimal publish/subscribe hub keyed by event name.
// Handlers run synchronously, in registration order, on the emitting goroutine.
type Bus struct {
	listeners map[string][]entry
	nextID    Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]entry)}
}

// On registers handler for event.
func (b *Bus) On(event string, handler Handler) Subscription {
	b.nextID++
	b.listeners[event] = append(b.listeners[event], entry{id: b.nextID, handler: handler})
	return b.nextID
}

// Off removes the handler registered under sub. The event stays known to the
// bus even when its last handler is removed.
func (b *Bus) Off(event string, sub Subscription) error {
	entries, ok := b.listeners[event]
	if !ok {
		return fmt.Errorf("off %q: %w", event, ErrNoEvent)
	}

	kept := entries[:0:0]
	for _, e := range entries {
		if e.id != sub {
			kept = append(kept, e)
		}
	}
	b.listeners[event] = kept
	return nil
}

// Emit calls every handler registered for event with args.
// Handlers registered while emitting are not called for this emission.
func (b *Bus) Emit(event string, args ...any) error {
	entries, ok := b.listeners[event]
	if !ok {
		return fmt.Errorf("emit %q: %w", event, ErrNoEvent)
	}

	snapshot := make([]entry, len(entries))
	copy(snapshot, entries)
	for _, e := range snapshot {
		e.handler(args...)
	}
	return nil
}
