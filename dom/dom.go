// Package dom is the narrow view of the browser document used by components and
// the router. Two implementations exist: the browser document (build-tagged,
// backed by syscall/js) and an in-memory document used by native tests.
//
// Only the operations the runtime needs are modelled. Everything here has no
// build tags, so code written against these interfaces compiles everywhere.
package dom

import "errors"

// ErrInvalidTag is returned by CreateElement for an empty or malformed tag name.
var ErrInvalidTag = errors.New("dom: invalid tag name")

// EventHandler receives dispatched events.
type EventHandler func(Event)

// Listener is the handle returned by AddEventListener. Go functions are not
// comparable, so listeners are removed by handle rather than by function.
type Listener interface {
	// Type is the event name the listener was registered for.
	Type() string
}

// EventTarget is anything listeners can be attached to.
type EventTarget interface {
	AddEventListener(event string, h EventHandler) Listener
	RemoveEventListener(l Listener)
}

// Event is a dispatched DOM event.
type Event interface {
	Type() string
	// Target is the element the event was dispatched at, or nil.
	Target() Element
	PreventDefault()
	DefaultPrevented() bool
}

// MouseEvent carries the button and modifier state of a pointer event.
type MouseEvent interface {
	Event
	Button() int
	MetaKey() bool
	CtrlKey() bool
	ShiftKey() bool
	AltKey() bool
}

// Element is a single DOM element.
type Element interface {
	EventTarget

	// TagName is the lower-case tag name.
	TagName() string

	InnerHTML() string
	// SetInnerHTML replaces every child with the parsed markup.
	SetInnerHTML(markup string)
	TextContent() string
	// SetTextContent replaces every child with a single text node.
	SetTextContent(text string)

	// AppendChild moves child under this element, detaching it from any
	// previous parent first.
	AppendChild(child Element)
	// Remove detaches the element from its parent.
	Remove()
	Parent() Element
	Children() []Element

	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	HasAttribute(name string) bool

	Style(property string) string
	SetStyle(property, value string)

	// Value is the current value of form controls.
	Value() string
	SetValue(v string)

	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
	// Closest returns the nearest inclusive ancestor matching selector.
	Closest(selector string) Element

	// DispatchEvent dispatches e at this element; it bubbles to the document.
	// Returns false when a handler called PreventDefault.
	DispatchEvent(e Event) bool
	// Click dispatches a primary-button click.
	Click()
	Focus()
}

// Document creates elements and is the root of event bubbling.
type Document interface {
	EventTarget

	CreateElement(tag string) (Element, error)
	QuerySelector(selector string) Element
	Body() Element
}

// MouseInit configures a synthetic mouse event.
type MouseInit struct {
	Button int
	Meta   bool
	Ctrl   bool
	Shift  bool
	Alt    bool
}

// Synthetic is an event created from Go, dispatched through DispatchEvent.
// It implements MouseEvent; non-mouse events report button 0 and no modifiers.
type Synthetic struct {
	typ       string
	init      MouseInit
	target    Element
	prevented bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Synthetic {
	return &Synthetic{typ: typ}
}

// NewMouseEvent creates a bubbling mouse event.
func NewMouseEvent(typ string, init MouseInit) *Synthetic {
	return &Synthetic{typ: typ, init: init}
}

func (e *Synthetic) Type() string           { return e.typ }
func (e *Synthetic) Target() Element        { return e.target }
func (e *Synthetic) PreventDefault()        { e.prevented = true }
func (e *Synthetic) DefaultPrevented() bool { return e.prevented }
func (e *Synthetic) Button() int            { return e.init.Button }
func (e *Synthetic) MetaKey() bool          { return e.init.Meta }
func (e *Synthetic) CtrlKey() bool          { return e.init.Ctrl }
func (e *Synthetic) ShiftKey() bool         { return e.init.Shift }
func (e *Synthetic) AltKey() bool           { return e.init.Alt }

// Init returns the mouse state the event was created with.
func (e *Synthetic) Init() MouseInit { return e.init }

func (e *Synthetic) setTarget(t Element) { e.target = t }

var (
	_ MouseEvent = (*Synthetic)(nil)
)
