package components

import (
	"github.com/vcrobe/nojs-messenger/runtime"
)

// Fields are the inputs of one form, in display order.
type Fields []*Input

// Validate validates every field and reports whether all of them passed.
// Every field shows its outcome, not only the first failing one.
func (f Fields) Validate() bool {
	ok := true
	for _, in := range f {
		if in.Validate() != "" {
			ok = false
		}
	}
	return ok
}

// Values maps field names to their current values.
func (f Fields) Values() map[string]string {
	out := make(map[string]string, len(f))
	for _, in := range f {
		out[in.Name()] = in.Value()
	}
	return out
}

// Get returns the field called name, or nil.
func (f Fields) Get(name string) *Input {
	for _, in := range f {
		if in.Name() == name {
			return in
		}
	}
	return nil
}

// Components keys each field's component by "field-<name>", the placeholder
// naming used by the page templates.
func (f Fields) Components() map[string]*runtime.Component {
	out := make(map[string]*runtime.Component, len(f))
	for _, in := range f {
		out["field-"+in.Name()] = in.Component()
	}
	return out
}
