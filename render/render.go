// Package render turns named html/template sources into markup and mounts
// child components into the placeholders that markup declares.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"sync"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/runtime"
)

// ErrUnknownTemplate is returned by Execute for a name never registered.
var ErrUnknownTemplate = errors.New("render: unknown template")

// Registry is a set of named templates that may call each other with
// {{template "name" .}}.
type Registry struct {
	mu   sync.RWMutex
	root *template.Template
}

// NewRegistry creates an empty registry. funcs may be nil.
func NewRegistry(funcs template.FuncMap) *Registry {
	root := template.New("")
	if funcs != nil {
		root = root.Funcs(funcs)
	}
	return &Registry{root: root}
}

// Register parses source under name, replacing an earlier template with the
// same name.
func (r *Registry) Register(name, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.root.New(name).Parse(source); err != nil {
		return fmt.Errorf("render: parse %q: %w", name, err)
	}
	return nil
}

// MustRegister is Register for package-level template tables.
func (r *Registry) MustRegister(name, source string) *Registry {
	if err := r.Register(name, source); err != nil {
		panic(err)
	}
	return r
}

// Execute renders the template called name with data.
func (r *Registry) Execute(name string, data any) (string, error) {
	r.mu.RLock()
	// Executing escapes the whole set and freezes it; a clone keeps the
	// registry open for later Register calls.
	set, err := r.root.Clone()
	r.mu.RUnlock()
	if err != nil {
		return "", err
	}

	t := set.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render: execute %q: %w", name, err)
	}
	return buf.String(), nil
}

// Placeholder is the attribute naming the host of a child component.
const Placeholder = "data-component"

// WithComponents replaces root's children with markup, then mounts each
// component into the element whose data-component attribute equals its key.
// Components without a host in the markup are left unmounted.
func WithComponents(root dom.Element, markup string, components map[string]*runtime.Component) error {
	root.SetInnerHTML(markup)

	keys := make([]string, 0, len(components))
	for k := range components {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, id := range keys {
		c := components[id]
		if c == nil {
			continue
		}
		host := root.QuerySelector(fmt.Sprintf(`[%s="%s"]`, Placeholder, id))
		if host == nil {
			continue
		}
		if err := c.Mount(host); err != nil {
			return fmt.Errorf("render: mount %q: %w", id, err)
		}
	}
	return nil
}
