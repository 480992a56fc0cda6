package pages

import (
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/runtime"
)

type statusView struct {
	runtime.ComponentBase
	code    string
	message string
}

func (v *statusView) Render(props.Values) runtime.Content {
	return runtime.Templ(errorPage(v.code, v.message, "/messenger", "Back to chats"))
}

// NotFound is the page for unknown paths.
func NotFound() runtime.Factory {
	return runtime.Constructor("div", func() runtime.View {
		return &statusView{code: "404", message: "Page not found"}
	})
}

// ServerError is the page shown after an unexpected failure.
func ServerError() runtime.Factory {
	return runtime.Constructor("div", func() runtime.View {
		return &statusView{code: "500", message: "We are already fixing it"}
	})
}
