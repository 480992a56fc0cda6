package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type nodeKind int

const (
	elementNode nodeKind = iota
	textNode
	commentNode
)

// MemoryDocument is an in-memory Document. Markup assigned through
// SetInnerHTML is parsed with the HTML5 parsing algorithm and serialized back
// by InnerHTML, so components behave as they do in a browser without one.
type MemoryDocument struct {
	root      *node
	body      *node
	listeners []*memListener
	focused   *node
}

var _ Document = (*MemoryDocument)(nil)

// NewMemoryDocument creates a document holding an empty <html><head><body> tree.
func NewMemoryDocument() *MemoryDocument {
	d := &MemoryDocument{}
	d.root = d.newElement("html")
	d.root.appendChild(d.newElement("head"))
	d.body = d.newElement("body")
	d.root.appendChild(d.body)
	return d
}

func (d *MemoryDocument) newElement(tag string) *node {
	return &node{doc: d, kind: elementNode, tag: tag, style: make(map[string]string)}
}

// CreateElement creates a detached element.
func (d *MemoryDocument) CreateElement(tag string) (Element, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !validTag(tag) {
		return nil, fmt.Errorf("create element %q: %w", tag, ErrInvalidTag)
	}
	return d.newElement(tag), nil
}

// QuerySelector returns the first element in document order matching selector.
func (d *MemoryDocument) QuerySelector(selector string) Element {
	return d.root.QuerySelector(selector)
}

// Body returns the <body> element.
func (d *MemoryDocument) Body() Element {
	return d.body
}

// Focused returns the element that last received Focus, or nil.
func (d *MemoryDocument) Focused() Element {
	if d.focused == nil || !d.focused.connected() {
		return nil
	}
	return d.focused
}

func (d *MemoryDocument) AddEventListener(event string, h EventHandler) Listener {
	l := &memListener{typ: event, handler: h}
	d.listeners = append(d.listeners, l)
	return l
}

func (d *MemoryDocument) RemoveEventListener(l Listener) {
	d.listeners = removeListener(d.listeners, l)
}

func validTag(tag string) bool {
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if c != '-' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

type memListener struct {
	typ     string
	handler EventHandler
	removed bool
}

func (l *memListener) Type() string { return l.typ }

func removeListener(list []*memListener, l Listener) []*memListener {
	ml, ok := l.(*memListener)
	if !ok {
		return list
	}
	for i, item := range list {
		if item == ml {
			ml.removed = true
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

type node struct {
	doc       *MemoryDocument
	kind      nodeKind
	tag       string
	attrs     []html.Attribute
	text      string
	parent    *node
	children  []*node
	style     map[string]string
	value     string
	valueSet  bool
	listeners []*memListener
}

var _ Element = (*node)(nil)

// element converts n to an Element without producing a typed nil.
func element(n *node) Element {
	if n == nil {
		return nil
	}
	return n
}

func (n *node) TagName() string { return n.tag }

func (n *node) InnerHTML() string {
	var buf bytes.Buffer
	for _, c := range n.children {
		if err := html.Render(&buf, c.toHTML()); err != nil {
			break
		}
	}
	return buf.String()
}

func (n *node) SetInnerHTML(markup string) {
	n.detachChildren()
	if markup == "" {
		return
	}

	context := &html.Node{Type: html.ElementNode, Data: n.tag, DataAtom: atom.Lookup([]byte(n.tag))}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		n.appendChild(&node{doc: n.doc, kind: textNode, text: markup})
		return
	}
	for _, h := range parsed {
		if c := n.doc.fromHTML(h); c != nil {
			n.appendChild(c)
		}
	}
}

func (n *node) TextContent() string {
	if n.kind != elementNode {
		return n.text
	}
	var sb strings.Builder
	n.walk(func(c *node) bool {
		if c.kind == textNode {
			sb.WriteString(c.text)
		}
		return true
	})
	return sb.String()
}

func (n *node) SetTextContent(text string) {
	n.detachChildren()
	if text != "" {
		n.appendChild(&node{doc: n.doc, kind: textNode, text: text})
	}
}

func (n *node) AppendChild(child Element) {
	c, ok := child.(*node)
	if !ok || c == nil {
		panic(fmt.Sprintf("dom: cannot append %T to an in-memory element", child))
	}
	for p := n; p != nil; p = p.parent {
		if p == c {
			panic("dom: hierarchy request error, cannot append an ancestor")
		}
	}
	c.Remove()
	n.appendChild(c)
}

func (n *node) appendChild(c *node) {
	c.parent = n
	n.children = append(n.children, c)
}

func (n *node) detachChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (n *node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

func (n *node) Parent() Element {
	return element(n.parent)
}

func (n *node) Children() []Element {
	var out []Element
	for _, c := range n.children {
		if c.kind == elementNode {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n *node) GetAttribute(name string) (string, bool) {
	return n.attr(strings.ToLower(name))
}

func (n *node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Key == name {
			n.attrs[i].Val = value
			return
		}
	}
	n.attrs = append(n.attrs, html.Attribute{Key: name, Val: value})
}

func (n *node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Key == name {
			n.attrs = append(n.attrs[:i:i], n.attrs[i+1:]...)
			return
		}
	}
}

func (n *node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

func (n *node) Style(property string) string {
	return n.style[property]
}

func (n *node) SetStyle(property, value string) {
	if value == "" {
		delete(n.style, property)
		return
	}
	n.style[property] = value
}

func (n *node) Value() string {
	if n.valueSet {
		return n.value
	}
	if n.tag == "textarea" {
		return n.TextContent()
	}
	v, _ := n.attr("value")
	return v
}

func (n *node) SetValue(v string) {
	n.value = v
	n.valueSet = true
}

func (n *node) QuerySelector(sel string) Element {
	s, ok := newQuery(n, sel)
	if !ok {
		return nil
	}
	var found *node
	n.walk(func(c *node) bool {
		if c != n && s.matches(c) {
			found = c
			return false
		}
		return true
	})
	return element(found)
}

func (n *node) QuerySelectorAll(sel string) []Element {
	s, ok := newQuery(n, sel)
	if !ok {
		return nil
	}
	var out []Element
	n.walk(func(c *node) bool {
		if c != n && s.matches(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (n *node) Closest(sel string) Element {
	s, ok := newQuery(n, sel)
	if !ok {
		return nil
	}
	for p := n; p != nil; p = p.parent {
		if s.matches(p) {
			return p
		}
	}
	return nil
}

func (n *node) AddEventListener(event string, h EventHandler) Listener {
	l := &memListener{typ: event, handler: h}
	n.listeners = append(n.listeners, l)
	return l
}

func (n *node) RemoveEventListener(l Listener) {
	n.listeners = removeListener(n.listeners, l)
}

func (n *node) DispatchEvent(e Event) bool {
	if s, ok := e.(*Synthetic); ok {
		s.setTarget(n)
	}

	var top *node
	for p := n; p != nil; p = p.parent {
		fire(p.listeners, e)
		top = p
	}
	if top == n.doc.root {
		fire(n.doc.listeners, e)
	}
	return !e.DefaultPrevented()
}

func fire(listeners []*memListener, e Event) {
	snapshot := make([]*memListener, len(listeners))
	copy(snapshot, listeners)
	for _, l := range snapshot {
		if l.typ == e.Type() && !l.removed {
			l.handler(e)
		}
	}
}

func (n *node) Click() {
	n.DispatchEvent(NewMouseEvent("click", MouseInit{}))
}

func (n *node) Focus() {
	n.doc.focused = n
}

func (n *node) connected() bool {
	top := n
	for top.parent != nil {
		top = top.parent
	}
	return top == n.doc.root
}

// walk visits n and its descendants in document order until fn returns false.
func (n *node) walk(fn func(*node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func (n *node) toHTML() *html.Node {
	switch n.kind {
	case textNode:
		return &html.Node{Type: html.TextNode, Data: n.text}
	case commentNode:
		return &html.Node{Type: html.CommentNode, Data: n.text}
	}
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     n.tag,
		DataAtom: atom.Lookup([]byte(n.tag)),
		Attr:     append([]html.Attribute(nil), n.attrs...),
	}
	for _, c := range n.children {
		h.AppendChild(c.toHTML())
	}
	return h
}

func (d *MemoryDocument) fromHTML(h *html.Node) *node {
	switch h.Type {
	case html.TextNode:
		return &node{doc: d, kind: textNode, text: h.Data}
	case html.CommentNode:
		return &node{doc: d, kind: commentNode, text: h.Data}
	case html.ElementNode:
		n := d.newElement(h.Data)
		for _, a := range h.Attr {
			n.attrs = append(n.attrs, html.Attribute{Key: a.Key, Val: a.Val})
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child := d.fromHTML(c); child != nil {
				n.appendChild(child)
			}
		}
		return n
	}
	return nil
}
