package bundle

import "errors"

var (
	// ErrCorrupt marks a candidate that could not be opened or decoded
	ErrCorrupt = errors.New("corrupt bundle")

	// ErrClosed is returned by Handle loads after Close
	ErrClosed = errors.New("bundle closed")

	// ErrMissingContent is returned when a requested scene or asset path is not in the bundle
	ErrMissingContent = errors.New("content not in bundle")
)
