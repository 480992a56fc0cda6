//go:build js && wasm
// +build js,wasm

package dom

import (
	"fmt"
	"strings"
	"syscall/js"
)

// Browser returns the live browser document.
func Browser() Document {
	return &jsDocument{v: js.Global().Get("document")}
}

type jsDocument struct {
	v js.Value
}

func (d *jsDocument) CreateElement(tag string) (el Element, err error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("create element: %w", ErrInvalidTag)
	}
	defer func() {
		// createElement throws InvalidCharacterError for malformed names.
		if rec := recover(); rec != nil {
			el, err = nil, fmt.Errorf("create element %q: %w: %v", tag, ErrInvalidTag, rec)
		}
	}()
	return wrapElement(d.v.Call("createElement", tag)), nil
}

func (d *jsDocument) QuerySelector(selector string) Element {
	return wrapElement(d.v.Call("querySelector", selector))
}

func (d *jsDocument) Body() Element {
	return wrapElement(d.v.Get("body"))
}

func (d *jsDocument) AddEventListener(event string, h EventHandler) Listener {
	return addListener(d.v, event, h)
}

func (d *jsDocument) RemoveEventListener(l Listener) {
	removeJSListener(l)
}

type jsListener struct {
	typ    string
	target js.Value
	fn     js.Func
}

func (l *jsListener) Type() string { return l.typ }

func addListener(target js.Value, event string, h EventHandler) Listener {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			h(&jsEvent{v: args[0]})
		}
		return nil
	})
	target.Call("addEventListener", event, fn)
	return &jsListener{typ: event, target: target, fn: fn}
}

func removeJSListener(l Listener) {
	jl, ok := l.(*jsListener)
	if !ok {
		return
	}
	jl.target.Call("removeEventListener", jl.typ, jl.fn)
	jl.fn.Release()
}

type jsElement struct {
	v js.Value
}

// wrapElement returns nil for null/undefined values so callers can compare
// against a nil interface.
func wrapElement(v js.Value) Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &jsElement{v: v}
}

func (e *jsElement) TagName() string       { return strings.ToLower(e.v.Get("tagName").String()) }
func (e *jsElement) InnerHTML() string     { return e.v.Get("innerHTML").String() }
func (e *jsElement) SetInnerHTML(m string) { e.v.Set("innerHTML", m) }
func (e *jsElement) TextContent() string   { return e.v.Get("textContent").String() }

func (e *jsElement) SetTextContent(text string) { e.v.Set("textContent", text) }

func (e *jsElement) AppendChild(child Element) {
	c, ok := child.(*jsElement)
	if !ok {
		panic(fmt.Sprintf("dom: cannot append %T to a browser element", child))
	}
	e.v.Call("appendChild", c.v)
}

func (e *jsElement) Remove() { e.v.Call("remove") }

func (e *jsElement) Parent() Element {
	return wrapElement(e.v.Get("parentElement"))
}

func (e *jsElement) Children() []Element {
	list := e.v.Get("children")
	out := make([]Element, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		out = append(out, &jsElement{v: list.Index(i)})
	}
	return out
}

func (e *jsElement) GetAttribute(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (e *jsElement) SetAttribute(name, value string) { e.v.Call("setAttribute", name, value) }
func (e *jsElement) RemoveAttribute(name string)     { e.v.Call("removeAttribute", name) }
func (e *jsElement) HasAttribute(name string) bool   { return e.v.Call("hasAttribute", name).Bool() }

func (e *jsElement) Style(property string) string {
	return e.v.Get("style").Call("getPropertyValue", property).String()
}

func (e *jsElement) SetStyle(property, value string) {
	e.v.Get("style").Call("setProperty", property, value)
}

func (e *jsElement) Value() string {
	v := e.v.Get("value")
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

func (e *jsElement) SetValue(v string) { e.v.Set("value", v) }

func (e *jsElement) QuerySelector(selector string) Element {
	return wrapElement(e.v.Call("querySelector", selector))
}

func (e *jsElement) QuerySelectorAll(selector string) []Element {
	list := e.v.Call("querySelectorAll", selector)
	out := make([]Element, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		out = append(out, &jsElement{v: list.Index(i)})
	}
	return out
}

func (e *jsElement) Closest(selector string) Element {
	return wrapElement(e.v.Call("closest", selector))
}

func (e *jsElement) AddEventListener(event string, h EventHandler) Listener {
	return addListener(e.v, event, h)
}

func (e *jsElement) RemoveEventListener(l Listener) {
	removeJSListener(l)
}

func (e *jsElement) DispatchEvent(ev Event) bool {
	init := js.Global().Get("Object").New()
	init.Set("bubbles", true)
	init.Set("cancelable", true)
	ctor := "Event"
	if s, ok := ev.(*Synthetic); ok {
		mi := s.Init()
		ctor = "MouseEvent"
		init.Set("button", mi.Button)
		init.Set("metaKey", mi.Meta)
		init.Set("ctrlKey", mi.Ctrl)
		init.Set("shiftKey", mi.Shift)
		init.Set("altKey", mi.Alt)
	}
	native := js.Global().Get(ctor).New(ev.Type(), init)
	ok := e.v.Call("dispatchEvent", native).Bool()
	if !ok {
		ev.PreventDefault()
	}
	return ok
}

func (e *jsElement) Click() { e.v.Call("click") }
func (e *jsElement) Focus() { e.v.Call("focus") }

type jsEvent struct {
	v js.Value
}

func (e *jsEvent) Type() string { return e.v.Get("type").String() }

func (e *jsEvent) Target() Element {
	t := e.v.Get("target")
	if t.IsNull() || t.IsUndefined() {
		return nil
	}
	// Text nodes can be click targets; report their parent element instead.
	if t.Get("nodeType").Int() != 1 {
		return wrapElement(t.Get("parentElement"))
	}
	return &jsElement{v: t}
}

func (e *jsEvent) PreventDefault()        { e.v.Call("preventDefault") }
func (e *jsEvent) DefaultPrevented() bool { return e.v.Get("defaultPrevented").Bool() }
func (e *jsEvent) Button() int            { return intOr(e.v.Get("button"), 0) }
func (e *jsEvent) MetaKey() bool          { return e.v.Get("metaKey").Truthy() }
func (e *jsEvent) CtrlKey() bool          { return e.v.Get("ctrlKey").Truthy() }
func (e *jsEvent) ShiftKey() bool         { return e.v.Get("shiftKey").Truthy() }
func (e *jsEvent) AltKey() bool           { return e.v.Get("altKey").Truthy() }

func intOr(v js.Value, fallback int) int {
	if v.Type() != js.TypeNumber {
		return fallback
	}
	return v.Int()
}

var (
	_ Document   = (*jsDocument)(nil)
	_ Element    = (*jsElement)(nil)
	_ MouseEvent = (*jsEvent)(nil)
)
