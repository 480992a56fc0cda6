package router

import "sync"

// History is the browser session history as seen by the router.
type History interface {
	// PushState adds an entry for path and makes it current.
	PushState(path string)
	// ReplaceState replaces the current entry with path.
	ReplaceState(path string)
	Back()
	Forward()
	// Pathname is the path of the current entry.
	Pathname() string
	// Origin is scheme://host[:port] of the page.
	Origin() string
	// OnPopState registers fn for back/forward traversal. fn receives the
	// path of the entry that became current.
	OnPopState(fn func(path string)) (stop func())
}

// MemoryHistory is an in-process History. Back and Forward notify popstate
// listeners synchronously.
type MemoryHistory struct {
	mu        sync.Mutex
	origin    string
	entries   []string
	index     int
	listeners map[int]func(string)
	nextID    int
}

var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory creates a history holding a single entry for path.
func NewMemoryHistory(origin, path string) *MemoryHistory {
	if path == "" {
		path = "/"
	}
	return &MemoryHistory{
		origin:    origin,
		entries:   []string{path},
		listeners: make(map[int]func(string)),
	}
}

func (h *MemoryHistory) PushState(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

func (h *MemoryHistory) ReplaceState(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = path
}

func (h *MemoryHistory) Back()    { h.traverse(-1) }
func (h *MemoryHistory) Forward() { h.traverse(1) }

func (h *MemoryHistory) traverse(delta int) {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return
	}
	h.index = next
	path := h.entries[next]
	fns := make([]func(string), 0, len(h.listeners))
	for id := 0; id <= h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
}

func (h *MemoryHistory) Pathname() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

func (h *MemoryHistory) Origin() string { return h.origin }

func (h *MemoryHistory) OnPopState(fn func(path string)) (stop func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Entries returns a copy of the history stack.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
