package catalog

// Attribute names the catalog resolves eagerly so queries never touch the
// KeyMap after initialization.
const (
	attrName         = "Name"
	attrArtist       = "Artist"
	attrAlbum        = "Album"
	attrGenre        = "Genre"
	attrKind         = "Kind"
	attrSize         = "Size"
	attrTotalTime    = "Total Time"
	attrBitRate      = "Bit Rate"
	attrRating       = "Rating"
	attrPlayCount    = "Play Count"
	attrPlayDate     = "Play Date UTC"
	attrLocation     = "Location"
	attrPersistentID = "Persistent ID"
	attrTrackID      = "Track ID"

	attrPlaylistID           = "Playlist ID"
	attrPlaylistPersistentID = "Playlist Persistent ID"
	attrMaster               = "Master"

	keyTracks        = "Tracks"
	keyPlaylists     = "Playlists"
	keyPlaylistItems = "Playlist Items"
	keySmartInfo     = "Smart Info"
	keySmartCriteria = "Smart Criteria"
)

// TrackRecord is one track's attribute set, keyed by KeyMap codes. The record
// is schema-free: whatever keys the document carries are stored verbatim
// (compacted), so future player versions cannot break the parse.
type TrackRecord struct {
	attrs map[string]string
}

func newTrackRecord() *TrackRecord {
	return &TrackRecord{attrs: make(map[string]string, 24)}
}

func (t *TrackRecord) get(code string) string {
	if t == nil {
		return ""
	}
	return t.attrs[code]
}

func (t *TrackRecord) set(code, value string) {
	t.attrs[code] = value
}

// trackRef joins a playlist entry to a track by both identities: the
// session-scoped numeric ID the document uses and the persistent ID the rest
// of the system uses. Keeping both lets a partial playlist refresh reconcile
// against the document without rebuilding the track table.
type trackRef struct {
	trackID    int64
	persistent PersistentID
}

// PlaylistRecord is one playlist's compacted attributes plus its ordered
// track references.
type PlaylistRecord struct {
	attrs map[string]string
	items []trackRef
}

func newPlaylistRecord() *PlaylistRecord {
	return &PlaylistRecord{attrs: make(map[string]string, 8)}
}

// libraryDocument is the compact tree: library-level attributes, the track
// table keyed by persistent ID, and the playlist list in document order.
// Exactly one Catalog owns a given tree; it is never shared.
type libraryDocument struct {
	attrs      map[string]string
	tracks     map[PersistentID]*TrackRecord
	trackOrder []PersistentID
	playlists  []*PlaylistRecord
}

func newLibraryDocument() *libraryDocument {
	return &libraryDocument{
		attrs:  make(map[string]string, 16),
		tracks: make(map[PersistentID]*TrackRecord),
	}
}

// TrackInfo is the typed read view handed to callers; the catalog never
// exposes KeyMap codes.
type TrackInfo struct {
	PersistentID PersistentID
	TrackID      int64
	Name         string
	Artist       string
	Album        string
	Genre        string
	Kind         string
	Size         int64
	TotalTime    int64 // milliseconds
	BitRate      int64 // kbit/s
	Rating       int64
	PlayCount    int64
	PlayDate     string
	Location     string
}

// PlaylistInfo is the typed read view of a playlist's identity.
type PlaylistInfo struct {
	PersistentID PersistentID
	PlaylistID   int64
	Name         string
	Tracks       int
}
