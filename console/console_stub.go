//go:build !wasm
// +build !wasm

package console

import (
	"fmt"
	"os"
)

// Stub file for non-WASM builds so packages that log through the console
// still compile and run natively. The browser implementation lives in
// console.go with js/wasm build tags.

// Log is a no-op in non-WASM builds.
func Log(args ...any) {
	// No-op for tests
}

// Warn is a no-op in non-WASM builds.
func Warn(args ...any) {
	// No-op for tests
}

// Error is a no-op in non-WASM builds.
func Error(args ...any) {
	// No-op for tests
}

// Writer returns a line writer that prints to stderr.
func Writer() *LineWriter {
	return &LineWriter{emit: func(line string) {
		fmt.Fprintln(os.Stderr, line)
	}}
}
