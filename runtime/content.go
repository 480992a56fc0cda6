package runtime

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/vdom"
)

// Content is what a View renders: markup, a ready-made element, a node tree or
// a templ component.
type Content interface {
	inject(doc dom.Document, el dom.Element) error
}

type markup string

func (m markup) inject(_ dom.Document, el dom.Element) error {
	el.SetInnerHTML(string(m))
	return nil
}

// HTML returns content that is parsed and injected as the element's children.
func HTML(m string) Content { return markup(m) }

type node struct{ el dom.Element }

func (n node) inject(_ dom.Document, el dom.Element) error {
	el.SetInnerHTML("")
	if n.el != nil {
		el.AppendChild(n.el)
	}
	return nil
}

// Node returns content made of a single ready-made element.
func Node(el dom.Element) Content { return node{el: el} }

type tree struct{ n *vdom.VNode }

func (t tree) inject(doc dom.Document, el dom.Element) error {
	child, err := vdom.Build(doc, t.n)
	if err != nil {
		return err
	}
	return node{el: child}.inject(doc, el)
}

// Tree returns content built from a node tree.
func Tree(n *vdom.VNode) Content { return tree{n: n} }

type templContent struct{ c templ.Component }

func (t templContent) inject(_ dom.Document, el dom.Element) error {
	var buf bytes.Buffer
	if err := t.c.Render(context.Background(), &buf); err != nil {
		return err
	}
	el.SetInnerHTML(buf.String())
	return nil
}

// Templ returns content rendered by a templ component.
func Templ(c templ.Component) Content { return templContent{c: c} }

type failure struct{ err error }

func (f failure) inject(dom.Document, dom.Element) error { return f.err }

// Failure returns content that fails to render with err. The error reaches the
// caller of New or SetProps and the element keeps its previous children.
func Failure(err error) Content { return failure{err: err} }
