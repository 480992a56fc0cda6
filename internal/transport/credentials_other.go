//go:build !(js && wasm)
// +build !js !wasm

package transport

import "net/http"

// applyCredentials is a no-op natively; cookies come from the client's jar.
func applyCredentials(*http.Request, bool) {}
