package catalog

import (
	"strconv"
)

// AddTrack inserts the track into the table and appends a reference to the
// canonical master playlist. Replaces any record already stored under the
// same persistent ID. No-op on a not-ready catalog or a zero ID.
func (c *Catalog) AddTrack(info TrackInfo) bool {
	if !c.ready || info.PersistentID.IsZero() {
		return false
	}

	record := newTrackRecord()
	record.set(c.codes.persistentID, info.PersistentID.String())
	if info.TrackID != 0 {
		record.set(c.codes.trackID, strconv.FormatInt(info.TrackID, 10))
	}
	setIfPresent := func(code, value string) {
		if value != "" {
			record.set(code, value)
		}
	}
	setIfPresent(c.codes.name, info.Name)
	setIfPresent(c.codes.artist, info.Artist)
	setIfPresent(c.codes.album, info.Album)
	setIfPresent(c.codes.genre, info.Genre)
	setIfPresent(c.codes.kind, info.Kind)
	setIfPresent(c.codes.location, info.Location)
	setIfPresent(c.codes.playDate, info.PlayDate)
	setInt := func(code string, value int64) {
		if value != 0 {
			record.set(code, strconv.FormatInt(value, 10))
		}
	}
	setInt(c.codes.size, info.Size)
	setInt(c.codes.totalTime, info.TotalTime)
	setInt(c.codes.bitRate, info.BitRate)
	setInt(c.codes.rating, info.Rating)
	setInt(c.codes.playCount, info.PlayCount)

	if _, exists := c.doc.tracks[info.PersistentID]; !exists {
		c.doc.trackOrder = append(c.doc.trackOrder, info.PersistentID)
	}
	c.doc.tracks[info.PersistentID] = record

	if master := c.masterPlaylist(); master != nil && !containsTrack(master, info.PersistentID) {
		master.items = append(master.items, trackRef{trackID: info.TrackID, persistent: info.PersistentID})
	}

	c.logger.Debug("track added", "persistent_id", info.PersistentID.String(), "name", info.Name)
	return true
}

// DeleteFile removes the track whose location matches the path from the
// track table and from every playlist reference list. Returns the removed
// track's persistent ID, or the zero ID when no track matches; an absent path
// changes nothing.
func (c *Catalog) DeleteFile(path string) PersistentID {
	if !c.ready {
		return ZeroID
	}
	pid := c.GetPersistentIDByLocation(path)
	if pid.IsZero() {
		return ZeroID
	}
	c.removeTrack(pid)
	c.logger.Debug("track deleted", "persistent_id", pid.String(), "path", path)
	return pid
}

// RemoveTrack removes the track with the given persistent ID from the track
// table and from every playlist reference list. Reconciliation removes by
// identity rather than location because aliased records share one file.
func (c *Catalog) RemoveTrack(id PersistentID) bool {
	if !c.ready {
		return false
	}
	if _, ok := c.doc.tracks[id]; !ok {
		return false
	}
	c.removeTrack(id)
	c.logger.Debug("track removed", "persistent_id", id.String())
	return true
}

func (c *Catalog) removeTrack(pid PersistentID) {
	delete(c.doc.tracks, pid)
	for i, ordered := range c.doc.trackOrder {
		if ordered == pid {
			c.doc.trackOrder = append(c.doc.trackOrder[:i], c.doc.trackOrder[i+1:]...)
			break
		}
	}
	for _, playlist := range c.doc.playlists {
		kept := playlist.items[:0]
		for _, ref := range playlist.items {
			if ref.persistent != pid {
				kept = append(kept, ref)
			}
		}
		playlist.items = kept
	}
}

// RenameFile updates the location attribute of the track stored at oldPath.
func (c *Catalog) RenameFile(oldPath, newPath string) bool {
	if !c.ready {
		return false
	}
	pid := c.GetPersistentIDByLocation(oldPath)
	if pid.IsZero() {
		return false
	}
	c.doc.tracks[pid].set(c.codes.location, newPath)
	return true
}

// AddPlaylist updates the name of the playlist with the same persistent ID,
// or appends a new record when none exists.
func (c *Catalog) AddPlaylist(info PlaylistInfo) bool {
	if !c.ready || info.PersistentID.IsZero() {
		return false
	}
	if existing := c.findPlaylist(info.PersistentID); existing != nil {
		existing.attrs[c.codes.name] = info.Name
		return true
	}
	record := newPlaylistRecord()
	record.attrs[c.codes.name] = info.Name
	record.attrs[c.codes.playlistPersistentID] = info.PersistentID.String()
	if info.PlaylistID != 0 {
		record.attrs[c.codes.playlistID] = strconv.FormatInt(info.PlaylistID, 10)
	}
	c.doc.playlists = append(c.doc.playlists, record)
	c.logger.Debug("playlist added", "persistent_id", info.PersistentID.String(), "name", info.Name)
	return true
}

// AddTracksToPlaylist appends references for the given track IDs, skipping
// any already present so a playlist never holds duplicate references.
func (c *Catalog) AddTracksToPlaylist(trackIDs []PersistentID, playlistID PersistentID) int {
	if !c.ready {
		return 0
	}
	playlist := c.findPlaylist(playlistID)
	if playlist == nil {
		return 0
	}
	added := 0
	for _, pid := range trackIDs {
		if pid.IsZero() || containsTrack(playlist, pid) {
			continue
		}
		var transient int64
		if track, ok := c.doc.tracks[pid]; ok {
			transient = attrInt(track.get(c.codes.trackID))
		}
		playlist.items = append(playlist.items, trackRef{trackID: transient, persistent: pid})
		added++
	}
	return added
}

// RemoveTracksFromPlaylist drops references to the given tracks from one
// playlist, leaving the track table untouched.
func (c *Catalog) RemoveTracksFromPlaylist(trackIDs []PersistentID, playlistID PersistentID) int {
	if !c.ready {
		return 0
	}
	playlist := c.findPlaylist(playlistID)
	if playlist == nil {
		return 0
	}
	drop := make(map[PersistentID]struct{}, len(trackIDs))
	for _, pid := range trackIDs {
		drop[pid] = struct{}{}
	}
	kept := playlist.items[:0]
	removed := 0
	for _, ref := range playlist.items {
		if _, gone := drop[ref.persistent]; gone {
			removed++
			continue
		}
		kept = append(kept, ref)
	}
	playlist.items = kept
	return removed
}

// RemovePlaylist deletes one playlist record outright.
func (c *Catalog) RemovePlaylist(playlistID PersistentID) bool {
	if !c.ready {
		return false
	}
	for i, playlist := range c.doc.playlists {
		if c.playlistPersistent(playlist) == playlistID {
			c.doc.playlists = append(c.doc.playlists[:i], c.doc.playlists[i+1:]...)
			return true
		}
	}
	return false
}

// RefreshPlaylists removes every playlist whose persistent ID is absent from
// existing; the records named there are retained untouched.
func (c *Catalog) RefreshPlaylists(existing []PersistentID) int {
	if !c.ready {
		return 0
	}
	keep := make(map[PersistentID]struct{}, len(existing))
	for _, pid := range existing {
		keep[pid] = struct{}{}
	}
	kept := c.doc.playlists[:0]
	removed := 0
	for _, playlist := range c.doc.playlists {
		if _, ok := keep[c.playlistPersistent(playlist)]; ok {
			kept = append(kept, playlist)
		} else {
			removed++
		}
	}
	c.doc.playlists = kept
	if removed > 0 {
		c.logger.Debug("playlists pruned", "removed", removed)
	}
	return removed
}

func containsTrack(playlist *PlaylistRecord, pid PersistentID) bool {
	for _, ref := range playlist.items {
		if ref.persistent == pid {
			return true
		}
	}
	return false
}
