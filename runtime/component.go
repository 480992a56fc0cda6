// Package runtime implements the component contract shared by every visual unit:
// creation, reactive update, and teardown, without a diffing engine. Every
// render replaces the whole subtree of the component's element.
//
// This package has no build tags. Components run against any dom.Document, so
// they are exercised natively with dom.NewMemoryDocument.
package runtime

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/events"
	"github.com/vcrobe/nojs-messenger/logger"
	"github.com/vcrobe/nojs-messenger/props"
)

var (
	// ErrNoTagName is returned by New when no tag name is given.
	ErrNoTagName = errors.New("runtime: no tag name")
	// ErrElementNotReady is returned when the element is requested before
	// initialization or after Destroy.
	ErrElementNotReady = errors.New("runtime: element not ready")
)

// Lifecycle events emitted on each component's internal bus.
const (
	EventInit   = "init"
	EventMount  = "flow:component-did-mount"
	EventUpdate = "flow:component-did-update"
	EventRender = "flow:render"
)

// EventsKey is the property holding the element's event handlers.
const EventsKey = "events"

// Events maps DOM event names to handlers. Store it under EventsKey.
type Events map[string]dom.EventHandler

var log = logger.Nop()

// SetLogger sets the logger used by every component.
func SetLogger(l *logger.Logger) {
	log = logger.OrNop(l).Named("runtime")
}

// Component owns one DOM element and a property bag, and drives the
// lifecycle of the View rendering into it.
type Component struct {
	id      string
	tag     string
	doc     dom.Document
	element dom.Element
	props   *props.Bag
	bus     *events.Bus
	view    View

	listeners   []dom.Listener
	unsubscribe func()
	destroyed   bool

	// err carries the failure of the last bus handler back to the emitter.
	err error
}

// New creates the component's element, wraps initial in an observable bag and
// renders view into the element before returning. The component is not
// attached anywhere until Mount.
func New(doc dom.Document, tag string, initial props.Values, view View) (*Component, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, ErrNoTagName
	}
	if view == nil {
		return nil, fmt.Errorf("runtime: nil view for <%s>", tag)
	}

	c := &Component{
		id:    uuid.NewString(),
		tag:   tag,
		doc:   doc,
		props: props.NewBag(initial),
		bus:   events.NewBus(),
		view:  view,
	}
	c.registerEvents()
	view.SetComponent(c)

	if err := c.emit(EventInit); err != nil {
		return nil, err
	}
	c.unsubscribe = c.props.Subscribe(func(old, current props.Values) {
		if err := c.emit(EventUpdate, old, current); err != nil {
			c.err = err
		}
	})
	return c, nil
}

func (c *Component) registerEvents() {
	c.bus.On(EventInit, func(...any) {
		c.err = c.init()
	})
	c.bus.On(EventMount, func(...any) {
		if m, ok := c.view.(Mounter); ok {
			m.ComponentDidMount()
		}
	})
	c.bus.On(EventUpdate, func(args ...any) {
		old, _ := args[0].(props.Values)
		current, _ := args[1].(props.Values)
		c.err = c.componentDidUpdate(old, current)
	})
	c.bus.On(EventRender, func(...any) {
		c.err = c.render()
	})
}

// emit runs event on the bus and returns the error its handler recorded.
func (c *Component) emit(event string, args ...any) error {
	c.err = nil
	if err := c.bus.Emit(event, args...); err != nil {
		return err
	}
	err := c.err
	c.err = nil
	return err
}

func (c *Component) init() error {
	el, err := c.doc.CreateElement(c.tag)
	if err != nil {
		return fmt.Errorf("runtime: create <%s>: %w", c.tag, err)
	}
	c.element = el
	return c.emit(EventRender)
}

func (c *Component) componentDidUpdate(old, current props.Values) error {
	rerender := true
	if u, ok := c.view.(Updater); ok {
		rerender = u.ComponentDidUpdate(old, current)
	}
	if !rerender || c.destroyed {
		return nil
	}
	return c.emit(EventRender)
}

// render detaches the previous listeners, injects the new content and attaches
// the listeners declared in the current events property, in that order.
// Listeners are reattached even when the content fails to inject.
func (c *Component) render() error {
	content := c.view.Render(c.props.Snapshot())

	c.removeEvents()
	defer c.addEvents()
	if content != nil {
		if err := content.inject(c.doc, c.element); err != nil {
			return fmt.Errorf("runtime: render <%s>: %w", c.tag, err)
		}
	}
	return nil
}

func (c *Component) addEvents() {
	handlers := eventHandlers(c.props.Get(EventsKey))
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if h := handlers[name]; h != nil {
			c.listeners = append(c.listeners, c.element.AddEventListener(name, h))
		}
	}
}

func (c *Component) removeEvents() {
	for _, l := range c.listeners {
		c.element.RemoveEventListener(l)
	}
	c.listeners = nil
}

func eventHandlers(v any) map[string]dom.EventHandler {
	switch h := v.(type) {
	case Events:
		return h
	case map[string]dom.EventHandler:
		return h
	case map[string]func(dom.Event):
		out := make(map[string]dom.EventHandler, len(h))
		for k, fn := range h {
			out[k] = fn
		}
		return out
	}
	return nil
}

// ID returns the component's identity token.
func (c *Component) ID() string { return c.id }

// Tag returns the tag name of the component's element.
func (c *Component) Tag() string { return c.tag }

// Props returns a snapshot of the current properties.
func (c *Component) Props() props.Values { return c.props.Snapshot() }

// Bag exposes the underlying property bag.
func (c *Component) Bag() *props.Bag { return c.props }

// Alive reports whether Destroy has not been called. Asynchronous completions
// check it before touching the component.
func (c *Component) Alive() bool { return !c.destroyed }

// SetProps merges partial into the property bag. It fires exactly one update
// per call, however many keys change. Nil or empty input is a no-op; calls on
// a destroyed component are dropped.
func (c *Component) SetProps(partial props.Values) error {
	if len(partial) == 0 {
		return nil
	}
	if c.destroyed {
		log.Debugw("set props on destroyed component dropped", "id", c.id, "tag", c.tag)
		return nil
	}

	c.props.Assign(partial)
	err := c.err
	c.err = nil
	return err
}

// Content returns the component's element.
func (c *Component) Content() (dom.Element, error) {
	if c.element == nil {
		return nil, ErrElementNotReady
	}
	return c.element, nil
}

// Mount appends the element to parent and fires ComponentDidMount. Mounting
// again re-parents the element and fires the hook again.
func (c *Component) Mount(parent dom.Element) error {
	if c.element == nil {
		return ErrElementNotReady
	}
	if parent == nil {
		return fmt.Errorf("runtime: mount <%s>: nil parent", c.tag)
	}
	parent.AppendChild(c.element)
	return c.emit(EventMount)
}

// Show makes the element visible.
func (c *Component) Show() {
	if c.element != nil {
		c.element.SetStyle("display", "block")
	}
}

// Hide hides the element without touching lifecycle state.
func (c *Component) Hide() {
	if c.element != nil {
		c.element.SetStyle("display", "none")
	}
}

// Destroy runs ComponentWillDestroy, detaches every listener, removes the
// element from the document and releases it. Calling it again does nothing.
func (c *Component) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	if d, ok := c.view.(Destroyer); ok {
		d.ComponentWillDestroy()
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	if c.element != nil {
		c.removeEvents()
		c.element.Remove()
		c.element = nil
	}
}
