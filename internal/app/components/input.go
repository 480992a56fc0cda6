// Package components holds the form controls shared by the pages.
package components

import (
	"strings"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/internal/validation"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/runtime"
	"github.com/vcrobe/nojs-messenger/vdom"
)

// RequiredMessage is shown for an empty required field.
const RequiredMessage = "This field is required"

// Input is a labelled text field. It validates itself against the rule named
// after its field when it loses focus.
//
// Properties: label, name, type, value, placeholder, error, class, required.
type Input struct {
	runtime.ComponentBase
}

// NewInput creates an input component. A caller-supplied events property
// replaces the blur validation.
func NewInput(doc dom.Document, p props.Values) (*Input, error) {
	in := &Input{}
	initial := p.Clone()
	if _, ok := initial[runtime.EventsKey]; !ok {
		initial[runtime.EventsKey] = runtime.Events{"focusout": in.onBlur}
	}
	if _, err := runtime.New(doc, "div", initial, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Input) Render(p props.Values) runtime.Content {
	name := p.String("name")
	typ := p.String("type")
	if typ == "" {
		typ = "text"
	}

	classes := []string{"input-group"}
	if p.String("error") != "" {
		classes = append(classes, "input-group--error")
	}
	if extra := p.String("class"); extra != "" {
		classes = append(classes, extra)
	}

	var children []*vdom.VNode
	if label := p.String("label"); label != "" {
		children = append(children, vdom.NewVNode("label", map[string]any{"for": name}, nil, label))
	}
	attrs := map[string]any{"id": name, "name": name, "type": typ}
	if v := p.String("value"); v != "" {
		attrs["value"] = v
	}
	if ph := p.String("placeholder"); ph != "" {
		attrs["placeholder"] = ph
	}
	children = append(children,
		vdom.NewVNode("input", attrs, nil, ""),
		vdom.Span("", map[string]any{"class": "underline"}),
	)
	if msg := p.String("error"); msg != "" {
		children = append(children, vdom.Span(msg, map[string]any{"class": "input-group__error"}))
	}
	return runtime.Tree(vdom.Div(map[string]any{"class": strings.Join(classes, " ")}, children...))
}

// Name is the field name.
func (in *Input) Name() string {
	return in.Component().Props().String("name")
}

func (in *Input) field() dom.Element {
	el, err := in.Component().Content()
	if err != nil {
		return nil
	}
	return el.QuerySelector("input")
}

// Value is what the field currently holds.
func (in *Input) Value() string {
	if f := in.field(); f != nil {
		return f.Value()
	}
	return in.Component().Props().String("value")
}

// SetValue replaces the field's value and clears its error.
func (in *Input) SetValue(v string) error {
	return in.SetProps(props.Values{"value": v, "error": ""})
}

// Focus moves focus to the field.
func (in *Input) Focus() {
	if f := in.field(); f != nil {
		f.Focus()
	}
}

// Validate checks the current value, shows the outcome and returns the error
// message, or "" when the value is acceptable.
func (in *Input) Validate() string {
	p := in.Component().Props()
	value := in.Value()
	msg := validation.Field(p.String("name"), value)
	if msg == "" && value == "" && p.Bool("required") {
		msg = RequiredMessage
	}
	if err := in.SetProps(props.Values{"value": value, "error": msg}); err != nil {
		return err.Error()
	}
	return msg
}

// SetError shows msg under the field without touching its value.
func (in *Input) SetError(msg string) error {
	return in.SetProps(props.Values{"value": in.Value(), "error": msg})
}

func (in *Input) onBlur(dom.Event) {
	if in.Alive() {
		in.Validate()
	}
}
