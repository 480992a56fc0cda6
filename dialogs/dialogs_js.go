//go:build js && wasm
// +build js,wasm

package dialogs

import (
	"syscall/js"
)

type browser struct{}

// Browser returns the window's alert, prompt and confirm.
func Browser() Prompter { return browser{} }

func (browser) Alert(msg string) {
	js.Global().Call("alert", msg)
}

func (browser) Prompt(message, initial string) (string, bool) {
	result := js.Global().Call("prompt", message, initial)
	if result.IsNull() || result.IsUndefined() {
		return "", false
	}
	return result.String(), true
}

func (browser) Confirm(message string) bool {
	return js.Global().Call("confirm", message).Truthy()
}
