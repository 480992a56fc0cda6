// Package router maps URL paths to components. It mounts the matched
// component under a root element, intercepts same-origin link clicks, follows
// back/forward traversal and applies an authentication guard.
package router

import (
	"strings"
	"sync"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/logger"
	"github.com/vcrobe/nojs-messenger/runtime"
	"github.com/vcrobe/nojs-messenger/signals"
)

// DefaultRootQuery is the root container used when Options leaves it empty.
const DefaultRootQuery = "#app"

// Options configures a Router.
type Options struct {
	RootQuery string
	Guard     *Guard
	Logger    *logger.Logger
}

// Router resolves paths to routes. Navigation is synchronous: Go returns after
// the previous route left and the new one rendered.
type Router struct {
	doc       dom.Document
	history   History
	rootQuery string
	guard     *Guard
	log       *logger.Logger

	routes   []*Route
	fallback *Route
	current  *Route
	auth     *signals.Signal[bool]

	click   dom.Listener
	stopPop func()
}

var (
	instanceMu sync.Mutex
	instance   *Router
)

// Init creates the process-wide router on first call. Later calls ignore
// their arguments and return the existing instance.
func Init(doc dom.Document, history History, opts Options) *Router {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = New(doc, history, opts)
	}
	return instance
}

// Instance returns the router created by Init, or nil.
func Instance() *Router {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

// New creates an independent router. Most code should receive the router
// from Init; New exists for explicit injection.
func New(doc dom.Document, history History, opts Options) *Router {
	root := opts.RootQuery
	if root == "" {
		root = DefaultRootQuery
	}
	return &Router{
		doc:       doc,
		history:   history,
		rootQuery: root,
		guard:     opts.Guard,
		log:       logger.OrNop(opts.Logger).Named("router"),
		auth:      signals.NewSignal(false),
	}
}

// Use registers factory under pattern. Registration order is match priority;
// the wildcard pattern is only consulted when nothing else matches.
func (r *Router) Use(pattern string, factory runtime.Factory) *Router {
	route := NewRoute(pattern, factory, r.doc, r.rootQuery)
	if pattern == Wildcard {
		r.fallback = route
		return r
	}
	r.routes = append(r.routes, route)
	return r
}

// Start installs the document click listener and the popstate listener, then
// renders the current location.
func (r *Router) Start() error {
	if r.stopPop == nil {
		r.stopPop = r.history.OnPopState(func(path string) {
			if err := r.onRoute(normalize(path)); err != nil {
				r.log.Errorw("navigation after popstate failed", "path", path, "error", err)
			}
		})
	}
	if r.click == nil {
		r.click = r.doc.AddEventListener("click", r.handleClick)
	}
	return r.onRoute(normalize(r.history.Pathname()))
}

// Stop removes the listeners installed by Start.
func (r *Router) Stop() {
	if r.stopPop != nil {
		r.stopPop()
		r.stopPop = nil
	}
	if r.click != nil {
		r.doc.RemoveEventListener(r.click)
		r.click = nil
	}
}

// Go pushes a history entry for path and navigates to it.
func (r *Router) Go(path string) error {
	path = normalize(path)
	r.history.PushState(path)
	return r.onRoute(path)
}

// Back traverses one entry back.
func (r *Router) Back() { r.history.Back() }

// Forward traverses one entry forward.
func (r *Router) Forward() { r.history.Forward() }

// SetAuth records whether the session is authenticated.
func (r *Router) SetAuth(authenticated bool) {
	r.auth.Set(authenticated)
}

// Authenticated reports the value last given to SetAuth.
func (r *Router) Authenticated() bool {
	return r.auth.Get()
}

// OnAuthChange calls fn whenever SetAuth is called.
func (r *Router) OnAuthChange(fn func(authenticated bool)) (unsubscribe func()) {
	return r.auth.Subscribe(func() { fn(r.auth.Get()) })
}

// Route returns the first registered route matching path, else the wildcard
// route, else nil.
func (r *Router) Route(path string) *Route {
	for _, route := range r.routes {
		if _, ok := route.Match(path); ok {
			return route
		}
	}
	return r.fallback
}

// Current returns the active route, or nil.
func (r *Router) Current() *Route {
	return r.current
}

func (r *Router) onRoute(path string) error {
	if target, ok := r.guard.Redirect(path, r.Authenticated()); ok {
		r.log.Debugw("guard redirect", "from", path, "to", target)
		r.history.ReplaceState(target)
		path = target
	}

	route := r.Route(path)
	if route == nil {
		r.log.Debugw("no route", "path", path)
		return nil
	}

	if r.current != nil && r.current != route {
		r.current.Leave()
	}
	r.current = route
	r.log.Debugw("navigate", "path", path, "pattern", route.Pattern())
	return route.Navigate(path)
}

// normalize strips a trailing .html suffix; an empty result becomes "/".
func normalize(path string) string {
	path = strings.TrimSuffix(path, ".html")
	if path == "" {
		return "/"
	}
	return path
}
