package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// RefreshPlaylist re-derives one playlist's authoritative reference set by
// partially re-streaming just the playlists section of the document, then
// removes any in-memory reference no longer present. The re-stream only runs
// when the on-disk timestamp has advanced past the one captured at load;
// otherwise the call is a no-op and reports no change. The document is opened
// for shared reading, tolerating concurrent rewrites by the player.
func (c *Catalog) RefreshPlaylist(ctx context.Context, playlistID PersistentID) (bool, error) {
	if !c.ready {
		return false, nil
	}

	info, err := os.Stat(c.path)
	if err != nil {
		return false, fmt.Errorf("stat library document: %w", err)
	}
	if !info.ModTime().After(c.modTime) {
		// Document unchanged since load; the cached references are current.
		return false, nil
	}

	target := c.findPlaylist(playlistID)
	if target == nil {
		return false, nil
	}

	current, found, err := c.streamPlaylistTrackIDs(ctx, playlistID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	kept := target.items[:0]
	removed := 0
	for _, ref := range target.items {
		if _, present := current[ref.trackID]; present {
			kept = append(kept, ref)
		} else {
			removed++
		}
	}
	target.items = kept
	if removed > 0 {
		c.logger.Debug("playlist refreshed", "persistent_id", playlistID.String(), "removed", removed)
	}
	return removed > 0, nil
}

// streamPlaylistTrackIDs scans the document's playlists section for the
// playlist with the given persistent ID and returns the set of transient
// track IDs it currently references. The tracks section is skipped wholesale;
// the scan stops as soon as the target playlist has been read. A throwaway
// KeyMap keeps this pass from touching the catalog's own table.
func (c *Catalog) streamPlaylistTrackIDs(ctx context.Context, playlistID PersistentID) (map[int64]struct{}, bool, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, false, fmt.Errorf("open library document: %w", err)
	}
	defer file.Close()

	p := &parser{
		dec:      xml.NewDecoder(file),
		keys:     NewKeyMap(),
		trackIDs: make(map[int64]PersistentID),
	}
	if _, err := p.expectStart("plist"); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if _, err := p.expectStart("dict"); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		key, ok, err := p.nextKey()
		if err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		if !ok {
			return nil, false, nil
		}
		if key != keyPlaylists {
			if err := p.skipValue(); err != nil {
				return nil, false, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
			}
			continue
		}
		return c.scanPlaylistsSection(ctx, p, playlistID)
	}
}

func (c *Catalog) scanPlaylistsSection(ctx context.Context, p *parser, playlistID PersistentID) (map[int64]struct{}, bool, error) {
	if _, err := p.expectStart("array"); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	pidCode := p.keys.Code(attrPlaylistPersistentID)
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		tok, err := p.dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "dict" {
				return nil, false, fmt.Errorf("%w: expected playlist <dict>, found <%s>", ErrMalformedDocument, t.Name.Local)
			}
			playlist, err := p.parsePlaylist()
			if err != nil {
				return nil, false, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
			}
			pid, err := ParsePersistentID(playlist.attrs[pidCode])
			if err != nil || pid != playlistID {
				continue
			}
			current := make(map[int64]struct{}, len(playlist.items))
			for _, ref := range playlist.items {
				current[ref.trackID] = struct{}{}
			}
			return current, true, nil
		case xml.EndElement:
			return nil, false, nil
		}
	}
}
