package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// PersistentID is the player's stable 64-bit identity for a track or
// playlist. It survives application restarts and is the only cross-session
// join key; the numeric IDs in the document are valid for one session only.
type PersistentID uint64

// ZeroID is the absent persistent ID.
const ZeroID PersistentID = 0

// String renders the canonical textual form: sixteen uppercase hexadecimal
// characters, high 32 bits first.
func (id PersistentID) String() string {
	return fmt.Sprintf("%08X%08X", uint32(id>>32), uint32(id))
}

// IsZero reports whether the ID is absent.
func (id PersistentID) IsZero() bool {
	return id == ZeroID
}

// ParsePersistentID parses the canonical sixteen-character hexadecimal form.
// Lowercase input is accepted; surrounding whitespace is not an error.
func ParsePersistentID(value string) (PersistentID, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != 16 {
		return ZeroID, fmt.Errorf("%w: %q", ErrBadPersistentID, value)
	}
	parsed, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return ZeroID, fmt.Errorf("%w: %q", ErrBadPersistentID, value)
	}
	return PersistentID(parsed), nil
}
