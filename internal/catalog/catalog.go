package catalog

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"orpheus/internal/logging"
	"orpheus/internal/textutil"
)

// ExtensionClassifier answers whether the host OS perceives a file extension
// as audio. The lookup is delegated, never computed here.
type ExtensionClassifier interface {
	IsAudio(ext string) bool
}

// Catalog owns one compact library tree. See the package documentation for
// the locking discipline; nothing here is synchronized.
type Catalog struct {
	path   string
	logger *slog.Logger

	keys    *KeyMap
	doc     *libraryDocument
	modTime time.Time
	ready   bool
	codes   attrCodes
}

// attrCodes caches the short codes of well-known attributes so queries never
// write to the KeyMap after initialization.
type attrCodes struct {
	name, artist, album, genre, kind         string
	size, totalTime, bitRate                 string
	rating, playCount, playDate              string
	location, persistentID, trackID          string
	playlistID, playlistPersistentID, master string
}

// New returns a catalog bound to the given library document path. The catalog
// is not usable until Initialize succeeds.
func New(path string, logger *slog.Logger) *Catalog {
	return &Catalog{
		path:   path,
		logger: logging.WithComponent(logger, "catalog"),
	}
}

// Initialize streams the library document into a fresh compact tree. On any
// parse error the catalog stays (or becomes) not ready and no partial tree is
// exposed.
func (c *Catalog) Initialize(ctx context.Context) error {
	c.ready = false

	file, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("open library document: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat library document: %w", err)
	}

	started := time.Now()
	keys := NewKeyMap()
	doc, err := parseDocument(ctx, bufio.NewReaderSize(file, 1<<16), keys)
	if err != nil {
		return err
	}

	c.keys = keys
	c.doc = doc
	c.modTime = info.ModTime()
	c.codes = resolveAttrCodes(keys)
	c.ready = true
	c.logger.Info("catalog ready",
		"tracks", len(doc.tracks),
		"playlists", len(doc.playlists),
		"keys", keys.Len(),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}

func resolveAttrCodes(keys *KeyMap) attrCodes {
	return attrCodes{
		name:                 keys.Code(attrName),
		artist:               keys.Code(attrArtist),
		album:                keys.Code(attrAlbum),
		genre:                keys.Code(attrGenre),
		kind:                 keys.Code(attrKind),
		size:                 keys.Code(attrSize),
		totalTime:            keys.Code(attrTotalTime),
		bitRate:              keys.Code(attrBitRate),
		rating:               keys.Code(attrRating),
		playCount:            keys.Code(attrPlayCount),
		playDate:             keys.Code(attrPlayDate),
		location:             keys.Code(attrLocation),
		persistentID:         keys.Code(attrPersistentID),
		trackID:              keys.Code(attrTrackID),
		playlistID:           keys.Code(attrPlaylistID),
		playlistPersistentID: keys.Code(attrPlaylistPersistentID),
		master:               keys.Code(attrMaster),
	}
}

// Ready reports whether Initialize has succeeded.
func (c *Catalog) Ready() bool {
	return c.ready
}

// Path returns the library document location the catalog was built from.
func (c *Catalog) Path() string {
	return c.path
}

// DocumentModTime returns the document's modification time captured at load.
func (c *Catalog) DocumentModTime() time.Time {
	return c.modTime
}

// TrackCount returns the number of tracks in the table, zero when not ready.
func (c *Catalog) TrackCount() int {
	if !c.ready {
		return 0
	}
	return len(c.doc.tracks)
}

// LibraryAttr returns a library-level attribute by its long name, or the
// empty string when absent or not ready.
func (c *Catalog) LibraryAttr(name string) string {
	if !c.ready {
		return ""
	}
	code, ok := c.keys.Lookup(name)
	if !ok {
		return ""
	}
	return c.doc.attrs[code]
}

// TrackAttr returns one track attribute by its long name, or the empty
// string when the track or attribute is absent.
func (c *Catalog) TrackAttr(id PersistentID, name string) string {
	if !c.ready {
		return ""
	}
	track, ok := c.doc.tracks[id]
	if !ok {
		return ""
	}
	code, ok := c.keys.Lookup(name)
	if !ok {
		return ""
	}
	return track.get(code)
}

// FindTracksByAlbum returns the persistent IDs of tracks whose album and
// artist match after trimming and case folding, in document order.
func (c *Catalog) FindTracksByAlbum(album, artist string) []PersistentID {
	if !c.ready {
		return nil
	}
	wantAlbum := textutil.Normalize(album)
	wantArtist := textutil.Normalize(artist)
	var out []PersistentID
	for _, pid := range c.doc.trackOrder {
		track := c.doc.tracks[pid]
		if textutil.Normalize(track.get(c.codes.album)) == wantAlbum &&
			textutil.Normalize(track.get(c.codes.artist)) == wantArtist {
			out = append(out, pid)
		}
	}
	return out
}

// FindTracksByArtist returns the persistent IDs of tracks whose artist
// matches after trimming and case folding, in document order.
func (c *Catalog) FindTracksByArtist(artist string) []PersistentID {
	if !c.ready {
		return nil
	}
	want := textutil.Normalize(artist)
	var out []PersistentID
	for _, pid := range c.doc.trackOrder {
		if textutil.Normalize(c.doc.tracks[pid].get(c.codes.artist)) == want {
			out = append(out, pid)
		}
	}
	return out
}

// FindTracksByPlaylist returns the track persistent IDs referenced by the
// playlist, in the playlist's stored order.
func (c *Catalog) FindTracksByPlaylist(playlistID PersistentID) []PersistentID {
	if !c.ready {
		return nil
	}
	playlist := c.findPlaylist(playlistID)
	if playlist == nil {
		return nil
	}
	out := make([]PersistentID, 0, len(playlist.items))
	for _, ref := range playlist.items {
		if !ref.persistent.IsZero() {
			out = append(out, ref.persistent)
		}
	}
	return out
}

// FindExtensionsByPlaylist resolves the playlist's tracks, extracts each
// location's lowercase extension, deduplicates, and keeps only extensions the
// classifier perceives as audio.
func (c *Catalog) FindExtensionsByPlaylist(playlistID PersistentID, classifier ExtensionClassifier) []string {
	if !c.ready || classifier == nil {
		return nil
	}
	playlist := c.findPlaylist(playlistID)
	if playlist == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, ref := range playlist.items {
		track := c.doc.tracks[ref.persistent]
		if track == nil {
			continue
		}
		ext := textutil.Extension(track.get(c.codes.location))
		if ext == "" {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		if classifier.IsAudio(ext) {
			out = append(out, ext)
		}
	}
	return out
}

// FindPlaylistName returns the playlist's display name, empty when unknown.
func (c *Catalog) FindPlaylistName(playlistID PersistentID) string {
	if !c.ready {
		return ""
	}
	playlist := c.findPlaylist(playlistID)
	if playlist == nil {
		return ""
	}
	return playlist.attrs[c.codes.name]
}

// FindPlaylistByName returns the first playlist whose name matches after
// trimming and case folding.
func (c *Catalog) FindPlaylistByName(name string) (PlaylistInfo, bool) {
	if !c.ready {
		return PlaylistInfo{}, false
	}
	want := textutil.Normalize(name)
	for _, playlist := range c.doc.playlists {
		if textutil.Normalize(playlist.attrs[c.codes.name]) == want {
			return c.playlistInfo(playlist), true
		}
	}
	return PlaylistInfo{}, false
}

// GetPersistentIDByLocation returns the persistent ID of the track stored at
// the given location, or the zero ID.
func (c *Catalog) GetPersistentIDByLocation(path string) PersistentID {
	if !c.ready {
		return ZeroID
	}
	want := textutil.NormalizePath(path)
	for _, pid := range c.doc.trackOrder {
		if textutil.NormalizePath(c.doc.tracks[pid].get(c.codes.location)) == want {
			return pid
		}
	}
	return ZeroID
}

// Track returns the typed view of one track record.
func (c *Catalog) Track(id PersistentID) (TrackInfo, bool) {
	if !c.ready {
		return TrackInfo{}, false
	}
	record, ok := c.doc.tracks[id]
	if !ok {
		return TrackInfo{}, false
	}
	return TrackInfo{
		PersistentID: id,
		TrackID:      attrInt(record.get(c.codes.trackID)),
		Name:         record.get(c.codes.name),
		Artist:       record.get(c.codes.artist),
		Album:        record.get(c.codes.album),
		Genre:        record.get(c.codes.genre),
		Kind:         record.get(c.codes.kind),
		Size:         attrInt(record.get(c.codes.size)),
		TotalTime:    attrInt(record.get(c.codes.totalTime)),
		BitRate:      attrInt(record.get(c.codes.bitRate)),
		Rating:       attrInt(record.get(c.codes.rating)),
		PlayCount:    attrInt(record.get(c.codes.playCount)),
		PlayDate:     record.get(c.codes.playDate),
		Location:     record.get(c.codes.location),
	}, true
}

// Playlists returns the typed view of every playlist in document order.
func (c *Catalog) Playlists() []PlaylistInfo {
	if !c.ready {
		return nil
	}
	out := make([]PlaylistInfo, 0, len(c.doc.playlists))
	for _, playlist := range c.doc.playlists {
		out = append(out, c.playlistInfo(playlist))
	}
	return out
}

func (c *Catalog) playlistInfo(playlist *PlaylistRecord) PlaylistInfo {
	return PlaylistInfo{
		PersistentID: c.playlistPersistent(playlist),
		PlaylistID:   attrInt(playlist.attrs[c.codes.playlistID]),
		Name:         playlist.attrs[c.codes.name],
		Tracks:       len(playlist.items),
	}
}

func (c *Catalog) playlistPersistent(playlist *PlaylistRecord) PersistentID {
	pid, err := ParsePersistentID(playlist.attrs[c.codes.playlistPersistentID])
	if err != nil {
		return ZeroID
	}
	return pid
}

func (c *Catalog) findPlaylist(id PersistentID) *PlaylistRecord {
	if id.IsZero() {
		return nil
	}
	for _, playlist := range c.doc.playlists {
		if c.playlistPersistent(playlist) == id {
			return playlist
		}
	}
	return nil
}

// masterPlaylist returns the canonical all-tracks playlist: the one flagged
// Master, falling back to the one named "Library".
func (c *Catalog) masterPlaylist() *PlaylistRecord {
	for _, playlist := range c.doc.playlists {
		if playlist.attrs[c.codes.master] == markerTrue {
			return playlist
		}
	}
	for _, playlist := range c.doc.playlists {
		if textutil.EqualFold(playlist.attrs[c.codes.name], "Library") {
			return playlist
		}
	}
	return nil
}

func attrInt(value string) int64 {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
