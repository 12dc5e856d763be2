// Package bridge declares the boundary to the live player automation
// surface. The catalog and reconciliation engine never talk to the player
// directly; they consume these interfaces, and tests substitute fakes. No
// automation transport lives in this repository.
package bridge

import (
	"context"

	"orpheus/internal/catalog"
	"orpheus/internal/change"
)

// Track is the live view of one track, richer than the library document:
// lyric and artwork presence are only knowable through the player.
type Track struct {
	PersistentID catalog.PersistentID
	Artist       string
	Title        string
	Album        string
	Location     string
	DurationMS   int64
	BitRate      int64
	HasLyrics    bool
	HasArtwork   bool
	Rating       int64
	PlayCount    int64
}

// Playlist is the live view of one playlist's identity.
type Playlist struct {
	PersistentID catalog.PersistentID
	Name         string
}

// TrackSource fetches live track data by persistent ID.
type TrackSource interface {
	Track(ctx context.Context, id catalog.PersistentID) (*Track, error)
}

// IDResolver maps session-scoped notification identifiers to persistent
// identities. Session IDs are meaningless across player restarts, so every
// maintenance action resolves through here before the catalog is touched.
type IDResolver interface {
	ResolvePlaylist(ctx context.Context, ref change.ObjectRef) (*Playlist, error)
	ResolveTrack(ctx context.Context, ref change.ObjectRef) (*Track, error)
}

// NotificationSource delivers raw library-event tuples. Deliver blocks until
// a notification arrives, the source closes, or ctx is done.
type NotificationSource interface {
	Deliver(ctx context.Context) (change.Notification, error)
}

// SetArtist, SetTitle, SetAlbum name the editable track attributes a
// MetadataWriter accepts.
const (
	SetArtist = "artist"
	SetTitle  = "title"
	SetAlbum  = "album"
)

// MetadataWriter pushes attribute edits back to the live player. The
// reconciliation engine commits staged tag edits through this.
type MetadataWriter interface {
	SetTrackAttr(ctx context.Context, id catalog.PersistentID, attr, value string) error
}
