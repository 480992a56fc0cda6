package runtime

import (
	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/props"
)

// Factory creates a fresh component with the given initial properties. The
// router keeps one Factory per route and calls it on every entry.
type Factory func(doc dom.Document, initial props.Values) (*Component, error)

// Constructor returns a Factory building a component with the given tag around
// a new view from newView.
func Constructor(tag string, newView func() View) Factory {
	return func(doc dom.Document, initial props.Values) (*Component, error) {
		return New(doc, tag, initial, newView())
	}
}
