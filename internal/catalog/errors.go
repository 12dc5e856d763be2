package catalog

import "errors"

var (
	// ErrNotReady is returned by operations that cannot run before a
	// successful Initialize.
	ErrNotReady = errors.New("catalog not ready")
	// ErrMalformedDocument wraps parse failures of the library document.
	ErrMalformedDocument = errors.New("malformed library document")
	// ErrBadPersistentID is returned when a persistent ID string is not
	// sixteen hexadecimal characters.
	ErrBadPersistentID = errors.New("invalid persistent id")
)
