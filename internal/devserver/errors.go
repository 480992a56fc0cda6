package devserver

import "errors"

// Package-specific errors
var (
	// ErrParsingConfig is returned when the environment cannot be decoded
	ErrParsingConfig = errors.New("failed to parse dev server configuration")

	// ErrInvalidUpstream is returned when DEV_UPSTREAM is not an absolute URL
	ErrInvalidUpstream = errors.New("upstream must be an absolute http(s) URL")

	// ErrRootNotFound is returned when the static root is not a directory
	ErrRootNotFound = errors.New("static root directory not found")
)
