package config

import "errors"

// Package-specific errors
var (
	// ErrParsingConfig is returned when the YAML document cannot be decoded
	ErrParsingConfig = errors.New("failed to parse client configuration")

	// ErrMissingField is returned when a required setting is empty
	ErrMissingField = errors.New("required configuration field is missing")
)
