package vdom

import (
	"fmt"
	"sort"

	"github.com/vcrobe/nojs-messenger/dom"
)

// Build creates the element tree described by n.
// Attributes are applied in lexical order so serialized output is stable.
// Boolean true renders as an empty attribute; false and nil are skipped.
func Build(doc dom.Document, n *VNode) (dom.Element, error) {
	if n == nil {
		return nil, nil
	}

	el, err := doc.CreateElement(n.Tag)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		setAttributeValue(el, k, n.Attributes[k])
	}

	if len(n.Children) == 0 {
		if n.Content != "" {
			el.SetTextContent(n.Content)
		}
		return el, nil
	}

	for _, child := range n.Children {
		childEl, err := Build(doc, child)
		if err != nil {
			return nil, fmt.Errorf("build <%s>: %w", n.Tag, err)
		}
		if childEl != nil {
			el.AppendChild(childEl)
		}
	}
	return el, nil
}

// setAttributeValue sets an attribute on an element, handling boolean attributes.
func setAttributeValue(el dom.Element, key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case bool:
		if v {
			el.SetAttribute(key, "")
		}
	case string:
		el.SetAttribute(key, v)
	default:
		el.SetAttribute(key, fmt.Sprint(v))
	}
}
