//go:build js && wasm
// +build js,wasm

package router

import "syscall/js"

type browserHistory struct{}

// BrowserHistory returns the window's session history.
func BrowserHistory() History { return browserHistory{} }

func (browserHistory) PushState(path string) {
	js.Global().Get("history").Call("pushState", js.Null(), "", path)
}

func (browserHistory) ReplaceState(path string) {
	js.Global().Get("history").Call("replaceState", js.Null(), "", path)
}

func (browserHistory) Back()    { js.Global().Get("history").Call("back") }
func (browserHistory) Forward() { js.Global().Get("history").Call("forward") }

func (browserHistory) Pathname() string {
	return js.Global().Get("location").Get("pathname").String()
}

func (browserHistory) Origin() string {
	return js.Global().Get("location").Get("origin").String()
}

func (browserHistory) OnPopState(fn func(path string)) (stop func()) {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(js.Global().Get("location").Get("pathname").String())
		return nil
	})
	js.Global().Call("addEventListener", "popstate", listener)
	return func() {
		js.Global().Call("removeEventListener", "popstate", listener)
		listener.Release()
	}
}
