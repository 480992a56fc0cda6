// Package props implements the observable property bag behind every component.
// It has no build tags and is tested natively.
package props

import (
	"errors"
	"sort"
	"sync"
)

// ErrDeleteDenied is returned by Bag.Delete. Properties can only be overwritten.
var ErrDeleteDenied = errors.New("props: access denied, properties cannot be deleted")

// Observer is notified after every mutation with the snapshot taken before the
// mutation and the snapshot taken after it.
type Observer func(old, current Values)

type subscriber struct {
	id int
	fn Observer
}

// Bag is an ordered, observable mapping from string keys to arbitrary values.
// Keys keep their first-insertion order. Observers are called synchronously on
// the mutating goroutine, outside the bag's lock, so they may read or mutate the
// bag again.
type Bag struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]any
	subs   []subscriber
	nextID int
}

// NewBag creates a bag holding a copy of initial. Initial keys are ordered
// lexically since Go maps carry no order of their own.
func NewBag(initial Values) *Bag {
	b := &Bag{values: make(map[string]any, len(initial))}
	keys := make([]string, 0, len(initial))
	for k := range initial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.keys = append(b.keys, k)
		b.values[k] = initial[k]
	}
	return b
}

// Get returns the value stored under key, or nil.
func (b *Bag) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[key]
}

// Lookup returns the value stored under key and whether the key exists.
func (b *Bag) Lookup(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (b *Bag) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Snapshot returns a shallow copy of the current values.
func (b *Bag) Snapshot() Values {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

func (b *Bag) snapshotLocked() Values {
	out := make(Values, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Set stores value under key and notifies observers once.
func (b *Bag) Set(key string, value any) {
	b.Assign(Values{key: value})
}

// Assign merges values into the bag. Existing keys not present in values are
// kept. Observers are notified once per call, however many keys change.
// An empty or nil argument is a no-op.
func (b *Bag) Assign(values Values) {
	if len(values) == 0 {
		return
	}

	b.mu.Lock()
	old := b.snapshotLocked()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, exists := b.values[k]; !exists {
			b.keys = append(b.keys, k)
		}
		b.values[k] = values[k]
	}
	current := b.snapshotLocked()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(old, current)
	}
}

// Delete always fails: a property can be overwritten with a zero value but
// never removed.
func (b *Bag) Delete(string) error {
	return ErrDeleteDenied
}

// Subscribe registers fn to be called after every mutation.
// Returns an unsubscribe func; call it on teardown.
func (b *Bag) Subscribe(fn Observer) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}
