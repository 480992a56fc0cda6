package router

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/runtime"
)

// ErrRootNotFound is returned when the root container is missing at mount time.
var ErrRootNotFound = errors.New("router: root element not found")

// Wildcard is the pattern of the fallback route.
const Wildcard = "*"

// Props keys set on every routed component.
const (
	ParamsKey   = "params"
	PathnameKey = "pathname"
)

// Params maps placeholder names to the path segments they matched.
type Params map[string]string

func (p Params) equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Route binds a path pattern to a component factory. It creates its component
// on first entry and keeps it until Leave.
type Route struct {
	pattern   string
	re        *regexp.Regexp
	keys      []string
	factory   runtime.Factory
	doc       dom.Document
	rootQuery string

	component *runtime.Component
	params    Params
	pathname  string
}

// NewRoute compiles pattern. A segment of the form {name} matches one path
// segment and is reported under name; everything else is literal.
func NewRoute(pattern string, factory runtime.Factory, doc dom.Document, rootQuery string) *Route {
	r := &Route{
		pattern:   pattern,
		factory:   factory,
		doc:       doc,
		rootQuery: rootQuery,
		params:    Params{},
		pathname:  pattern,
	}
	r.re, r.keys = compile(pattern)
	return r
}

func compile(pattern string) (*regexp.Regexp, []string) {
	switch pattern {
	case Wildcard:
		return nil, nil
	case "/":
		return regexp.MustCompile(`^/$`), nil
	}

	var keys []string
	var parts []string
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "" {
			continue
		}
		if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			keys = append(keys, seg[1:len(seg)-1])
			parts = append(parts, `([^/]+)`)
			continue
		}
		parts = append(parts, regexp.QuoteMeta(seg))
	}
	return regexp.MustCompile(`^/` + strings.Join(parts, "/") + `/?$`), keys
}

// Pattern returns the pattern the route was registered with.
func (r *Route) Pattern() string { return r.pattern }

// Component returns the mounted component, or nil.
func (r *Route) Component() *runtime.Component { return r.component }

// Params returns the parameters of the last navigation.
func (r *Route) Params() Params { return r.params }

// Pathname returns the path of the last navigation.
func (r *Route) Pathname() string { return r.pathname }

// Match reports whether pathname matches the route and extracts its parameters.
// It has no side effects.
func (r *Route) Match(pathname string) (Params, bool) {
	if r.re == nil {
		return Params{}, true
	}
	m := r.re.FindStringSubmatch(pathname)
	if m == nil {
		return Params{}, false
	}
	params := make(Params, len(r.keys))
	for i, key := range r.keys {
		params[key] = m[i+1]
	}
	return params, true
}

// Navigate makes pathname current for the route and renders it.
func (r *Route) Navigate(pathname string) error {
	params, ok := r.Match(pathname)
	if !ok {
		return nil
	}
	r.pathname = pathname
	r.params = params
	return r.render()
}

// Leave destroys the mounted component. The next Navigate creates a new one.
func (r *Route) Leave() {
	if r.component != nil {
		r.component.Destroy()
		r.component = nil
	}
}

func (r *Route) render() error {
	if r.component == nil {
		root := r.doc.QuerySelector(r.rootQuery)
		if root == nil {
			return fmt.Errorf("%w: %s", ErrRootNotFound, r.rootQuery)
		}
		c, err := r.factory(r.doc, props.Values{ParamsKey: r.params, PathnameKey: r.pathname})
		if err != nil {
			return fmt.Errorf("router: create %s: %w", r.pattern, err)
		}
		// Recorded before mounting: a mount hook may navigate away, and
		// leaving must find the component to destroy it.
		r.component = c
		if err := c.Mount(root); err != nil {
			c.Destroy()
			if r.component == c {
				r.component = nil
			}
			return fmt.Errorf("router: mount %s: %w", r.pattern, err)
		}
		return nil
	}

	current := r.component.Props()
	params, _ := current[ParamsKey].(Params)
	if !params.equal(r.params) || current.String(PathnameKey) != r.pathname {
		if err := r.component.SetProps(props.Values{ParamsKey: r.params, PathnameKey: r.pathname}); err != nil {
			return err
		}
	}
	r.component.Show()
	return nil
}
