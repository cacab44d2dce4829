package compat

import "errors"

var (
	// ErrInvalidCategory indicates a category the registry does not know about.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrUnknownSubsystem indicates a subsystem no provider is registered for.
	ErrUnknownSubsystem = errors.New("unknown subsystem")
)
