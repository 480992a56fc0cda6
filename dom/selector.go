package dom

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// query matches a CSS selector group against the in-memory tree. The tree is
// mirrored into x/net/html nodes so combinators and pseudo-classes see the
// real ancestors and siblings of every candidate.
type query struct {
	sel    cascadia.SelectorGroup
	mirror map[*node]*html.Node
}

// newQuery parses sel and mirrors the tree that contains n. It reports false
// for selectors cascadia cannot parse.
func newQuery(n *node, sel string) (*query, bool) {
	group, err := cascadia.ParseGroup(sel)
	if err != nil {
		return nil, false
	}
	top := n
	for top.parent != nil {
		top = top.parent
	}
	q := &query{sel: group, mirror: make(map[*node]*html.Node)}
	q.build(top)
	return q, true
}

func (q *query) build(n *node) *html.Node {
	var h *html.Node
	switch n.kind {
	case textNode:
		h = &html.Node{Type: html.TextNode, Data: n.text}
	case commentNode:
		h = &html.Node{Type: html.CommentNode, Data: n.text}
	default:
		h = &html.Node{
			Type:     html.ElementNode,
			Data:     n.tag,
			DataAtom: atom.Lookup([]byte(n.tag)),
			Attr:     n.attrs,
		}
	}
	for _, c := range n.children {
		h.AppendChild(q.build(c))
	}
	q.mirror[n] = h
	return h
}

func (q *query) matches(n *node) bool {
	if n.kind != elementNode {
		return false
	}
	h, ok := q.mirror[n]
	return ok && q.sel.Match(h)
}
