//go:build js && wasm
// +build js,wasm

package transport

import "net/http"

// applyCredentials sets the fetch credentials mode read by the wasm
// RoundTripper.
func applyCredentials(req *http.Request, include bool) {
	if include {
		req.Header.Set("js.fetch:credentials", "include")
		return
	}
	req.Header.Set("js.fetch:credentials", "same-origin")
}
