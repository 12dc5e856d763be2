package librarian

import "errors"

var (
	// ErrLockHeld reports another process already owns the writer lock.
	ErrLockHeld = errors.New("writer lock held by another process")
	// ErrUnknownPlaylist reports a scan or mutation naming a playlist the
	// catalog does not contain.
	ErrUnknownPlaylist = errors.New("unknown playlist")
	// ErrNoResolver reports a notification arriving without a configured
	// bridge resolver to map its session identifiers.
	ErrNoResolver = errors.New("no bridge resolver configured")
)
