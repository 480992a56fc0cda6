package components

import (
	"strings"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/runtime"
	"github.com/vcrobe/nojs-messenger/vdom"
)

// Button is a <button> with a text label.
//
// Properties: text, type (default "button"), class, full_width, disabled, events.
type Button struct {
	runtime.ComponentBase
}

// NewButton creates a button component.
func NewButton(doc dom.Document, p props.Values) (*Button, error) {
	b := &Button{}
	if _, err := runtime.New(doc, "button", p, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Button) Render(p props.Values) runtime.Content {
	if el, err := b.Component().Content(); err == nil {
		typ := p.String("type")
		if typ == "" {
			typ = "button"
		}
		el.SetAttribute("type", typ)

		classes := []string{"button"}
		if p.Bool("full_width") {
			classes = append(classes, "button--full")
		}
		if extra := p.String("class"); extra != "" {
			classes = append(classes, extra)
		}
		el.SetAttribute("class", strings.Join(classes, " "))

		if p.Bool("disabled") {
			el.SetAttribute("disabled", "")
		} else {
			el.RemoveAttribute("disabled")
		}
	}
	return runtime.Tree(vdom.Span(p.String("text"), map[string]any{"class": "button__text"}))
}

// SetDisabled toggles the disabled state.
func (b *Button) SetDisabled(disabled bool) error {
	return b.SetProps(props.Values{"disabled": disabled})
}
