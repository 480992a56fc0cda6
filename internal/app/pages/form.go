package pages

import (
	"context"
	"fmt"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/internal/app/components"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/render"
	"github.com/vcrobe/nojs-messenger/runtime"
)

type field struct {
	name        string
	label       string
	typ         string
	placeholder string
}

// formDef describes one form screen.
type formDef struct {
	id       string
	template string
	title    string
	submit   string
	fields   []field
	linkHref string
	linkText string

	// prefill fills the fields from the session user on mount.
	prefill bool
	// public forms report a 401 as a message instead of ending the session.
	public bool
	// check runs after field validation and may reject the values.
	check func(f *formPage, values map[string]string) bool
	// send performs the request. It runs through Deps.spawn.
	send func(ctx context.Context, f *formPage, values map[string]string) error
}

// formPage is a view rendering a form of Input components and a submit
// Button, validating on submit before sending.
type formPage struct {
	runtime.ComponentBase

	deps   *Deps
	doc    dom.Document
	def    formDef
	ctx    context.Context
	cancel context.CancelFunc

	fields components.Fields
	button *components.Button
}

func formFactory(deps *Deps, def formDef) runtime.Factory {
	return func(doc dom.Document, initial props.Values) (*runtime.Component, error) {
		f := &formPage{deps: deps, doc: doc, def: def}
		f.ctx, f.cancel = context.WithCancel(context.Background())
		p := initial.Clone()
		p[runtime.EventsKey] = runtime.Events{"submit": f.onSubmit}
		c, err := runtime.New(doc, "div", p, f)
		if err != nil {
			f.cancel()
			return nil, err
		}
		return c, nil
	}
}

func (f *formPage) controls() error {
	if f.button != nil {
		return nil
	}
	for _, fd := range f.def.fields {
		in, err := components.NewInput(f.doc, props.Values{
			"name":        fd.name,
			"label":       fd.label,
			"type":        fd.typ,
			"placeholder": fd.placeholder,
			"required":    true,
		})
		if err != nil {
			return fmt.Errorf("field %s: %w", fd.name, err)
		}
		f.fields = append(f.fields, in)
	}
	b, err := components.NewButton(f.doc, props.Values{
		"text":       f.def.submit,
		"type":       "submit",
		"full_width": true,
	})
	if err != nil {
		return err
	}
	f.button = b
	return nil
}

type formData struct {
	ID       string
	Title    string
	Fields   []string
	Error    string
	LinkHref string
	LinkText string
}

func (f *formPage) Render(p props.Values) runtime.Content {
	if err := f.controls(); err != nil {
		return runtime.Failure(err)
	}
	names := make([]string, len(f.def.fields))
	for i, fd := range f.def.fields {
		names[i] = fd.name
	}
	markup, err := templates.Execute(f.def.template, formData{
		ID:       f.def.id,
		Title:    f.def.title,
		Fields:   names,
		Error:    p.String("error"),
		LinkHref: f.def.linkHref,
		LinkText: f.def.linkText,
	})
	if err != nil {
		return runtime.Failure(err)
	}

	root, err := f.doc.CreateElement("div")
	if err != nil {
		return runtime.Failure(err)
	}
	comps := f.fields.Components()
	comps["submit"] = f.button.Component()
	if err := render.WithComponents(root, markup, comps); err != nil {
		return runtime.Failure(err)
	}
	return runtime.Node(root)
}

func (f *formPage) ComponentDidMount() {
	if !f.def.prefill {
		return
	}
	if u := f.deps.Session.User(); u != nil {
		f.fill(userValues(u))
		return
	}
	f.deps.spawn(func() {
		u, err := f.deps.Session.Load(f.ctx, f.deps.API)
		if !f.Alive() {
			return
		}
		if err != nil {
			if !f.deps.unauthorized(err) {
				f.showError(err)
			}
			return
		}
		f.fill(userValues(u))
	})
}

func (f *formPage) fill(values map[string]string) {
	for _, in := range f.fields {
		if v, ok := values[in.Name()]; ok {
			if err := in.SetValue(v); err != nil {
				f.deps.log("form").Warnw("prefill failed", "field", in.Name(), "error", err)
			}
		}
	}
}

func (f *formPage) onSubmit(e dom.Event) {
	e.PreventDefault()
	if !f.fields.Validate() {
		return
	}
	values := f.fields.Values()
	if f.def.check != nil && !f.def.check(f, values) {
		return
	}

	_ = f.button.SetDisabled(true)
	f.deps.spawn(func() {
		err := f.def.send(f.ctx, f, values)
		if !f.Alive() {
			return
		}
		_ = f.button.SetDisabled(false)
		if err == nil {
			return
		}
		if !f.def.public && f.deps.unauthorized(err) {
			return
		}
		f.deps.log("form").Warnw("submit failed", "form", f.def.id, "error", err)
		f.showError(err)
	})
}

func (f *formPage) showError(err error) {
	if err := f.SetProps(props.Values{"error": errorMessage(err)}); err != nil {
		f.deps.log("form").Errorw("render failed", "form", f.def.id, "error", err)
	}
}

func (f *formPage) ComponentWillDestroy() {
	f.cancel()
	for _, in := range f.fields {
		in.Component().Destroy()
	}
	if f.button != nil {
		f.button.Component().Destroy()
	}
}
