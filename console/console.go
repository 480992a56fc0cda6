//go:build js && wasm
// +build js,wasm

package console

import (
	"strings"
	"syscall/js"
)

func Log(args ...any) {
	console := js.Global().Get("console")
	console.Call("log", args...)
}

func Warn(args ...any) {
	console := js.Global().Get("console")
	console.Call("warn", args...)
}

func Error(args ...any) {
	console := js.Global().Get("console")
	console.Call("error", args...)
}

// Writer returns an io.Writer that forwards every line to the browser console.
// Lines carrying an error level go to console.error so they keep their stack
// in devtools.
func Writer() *LineWriter {
	return &LineWriter{emit: func(line string) {
		if strings.Contains(line, `"level":"error"`) || strings.Contains(line, "\tERROR\t") {
			Error(line)
			return
		}
		Log(line)
	}}
}
