package runtime

import (
	"fmt"

	"github.com/vcrobe/nojs-messenger/props"
)

// View renders a component's content. Embed ComponentBase to satisfy
// SetComponent.
type View interface {
	// Render returns the content for the current properties. A nil result
	// leaves the element's subtree as it is.
	Render(p props.Values) Content

	// SetComponent is called by New before the first render. It should not be
	// called by user code.
	SetComponent(c *Component)
}

// Mounter is implemented by views that start work once attached.
type Mounter interface {
	// ComponentDidMount runs after every Mount.
	ComponentDidMount()
}

// Updater is implemented by views that decide whether a change re-renders.
type Updater interface {
	// ComponentDidUpdate receives the properties before and after a change.
	// Returning false keeps the current content; the properties are updated
	// either way.
	ComponentDidUpdate(old, new props.Values) bool
}

// Destroyer is implemented by views that hold resources.
type Destroyer interface {
	// ComponentWillDestroy runs once, before listeners and the element go away.
	ComponentWillDestroy()
}

// ComponentBase is a struct that views can embed to reach the component they
// render into.
type ComponentBase struct {
	component *Component
}

// SetComponent is called by New to inject the owning component.
func (b *ComponentBase) SetComponent(c *Component) {
	b.component = c
}

// Component returns the owning component, or nil before New has run.
func (b *ComponentBase) Component() *Component {
	return b.component
}

// SetProps updates the owning component's properties.
//
// Example usage in a view:
//
//	func (v *Chat) onMessages(list []Message) {
//	    if err := v.SetProps(props.Values{"messages": list}); err != nil {
//	        log.Errorw("update messages", "error", err)
//	    }
//	}
func (b *ComponentBase) SetProps(p props.Values) error {
	if b.component == nil {
		return fmt.Errorf("set props called, but component is nil (view not constructed?)")
	}
	return b.component.SetProps(p)
}

// Alive reports whether the owning component exists and is not destroyed.
func (b *ComponentBase) Alive() bool {
	return b.component != nil && b.component.Alive()
}
