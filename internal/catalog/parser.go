package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Boolean markers appear as empty elements whose name is the value.
const (
	markerTrue  = "true"
	markerFalse = "false"
)

// parser is the arena for one streaming pass over the document. The
// transient track-ID index lives here and nowhere else: it is needed only to
// resolve playlist membership during the pass and must not outlive it.
type parser struct {
	dec      *xml.Decoder
	keys     *KeyMap
	trackIDs map[int64]PersistentID
}

// parseDocument makes a single forward pass over r and returns the compact
// tree. The reader is never rewound and the raw document is never held in
// memory beyond the decoder's cursor.
func parseDocument(ctx context.Context, r io.Reader, keys *KeyMap) (*libraryDocument, error) {
	p := &parser{
		dec:      xml.NewDecoder(r),
		keys:     keys,
		trackIDs: make(map[int64]PersistentID),
	}
	doc := newLibraryDocument()
	if err := p.run(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return doc, nil
}

func (p *parser) run(ctx context.Context, doc *libraryDocument) error {
	if _, err := p.expectStart("plist"); err != nil {
		return err
	}
	if _, err := p.expectStart("dict"); err != nil {
		return err
	}
	for {
		key, ok, err := p.nextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch key {
		case keyTracks:
			if err := p.parseTracks(ctx, doc); err != nil {
				return err
			}
		case keyPlaylists:
			if err := p.parsePlaylists(ctx, doc); err != nil {
				return err
			}
		case keySmartInfo, keySmartCriteria:
			// Opaque binary payloads; skip the sibling value unparsed.
			if err := p.skipValue(); err != nil {
				return err
			}
		default:
			value, err := p.readValue()
			if err != nil {
				return err
			}
			doc.attrs[p.keys.Code(key)] = value
		}
	}
}

func (p *parser) parseTracks(ctx context.Context, doc *libraryDocument) error {
	if _, err := p.expectStart("dict"); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		key, ok, err := p.nextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		record, err := p.parseTrack()
		if err != nil {
			return err
		}
		pid, err := ParsePersistentID(record.get(p.keys.Code(attrPersistentID)))
		if err != nil {
			return fmt.Errorf("track %s: %w", key, err)
		}
		if _, exists := doc.tracks[pid]; !exists {
			doc.trackOrder = append(doc.trackOrder, pid)
		}
		doc.tracks[pid] = record
		if tid, parseErr := strconv.ParseInt(record.get(p.keys.Code(attrTrackID)), 10, 64); parseErr == nil {
			p.trackIDs[tid] = pid
		}
	}
}

func (p *parser) parseTrack() (*TrackRecord, error) {
	if _, err := p.expectStart("dict"); err != nil {
		return nil, err
	}
	record := newTrackRecord()
	for {
		key, ok, err := p.nextKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			return record, nil
		}
		switch key {
		case keySmartInfo, keySmartCriteria:
			if err := p.skipValue(); err != nil {
				return nil, err
			}
		default:
			value, err := p.readValue()
			if err != nil {
				return nil, err
			}
			record.set(p.keys.Code(key), value)
		}
	}
}

func (p *parser) parsePlaylists(ctx context.Context, doc *libraryDocument) error {
	if _, err := p.expectStart("array"); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "dict" {
				return fmt.Errorf("expected playlist <dict>, found <%s>", t.Name.Local)
			}
			playlist, err := p.parsePlaylist()
			if err != nil {
				return err
			}
			doc.playlists = append(doc.playlists, playlist)
		case xml.EndElement:
			return nil
		}
	}
}

// parsePlaylist consumes one playlist dict whose start tag has already been
// read.
func (p *parser) parsePlaylist() (*PlaylistRecord, error) {
	record := newPlaylistRecord()
	for {
		key, ok, err := p.nextKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			return record, nil
		}
		switch key {
		case keyPlaylistItems:
			if err := p.parsePlaylistItems(record); err != nil {
				return nil, err
			}
		case keySmartInfo, keySmartCriteria:
			if err := p.skipValue(); err != nil {
				return nil, err
			}
		default:
			value, err := p.readValue()
			if err != nil {
				return nil, err
			}
			record.attrs[p.keys.Code(key)] = value
		}
	}
}

func (p *parser) parsePlaylistItems(record *PlaylistRecord) error {
	if _, err := p.expectStart("array"); err != nil {
		return err
	}
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "dict" {
				return fmt.Errorf("expected item <dict>, found <%s>", t.Name.Local)
			}
			ref, err := p.parsePlaylistItem()
			if err != nil {
				return err
			}
			if ref.trackID != 0 {
				record.items = append(record.items, ref)
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *parser) parsePlaylistItem() (trackRef, error) {
	var ref trackRef
	for {
		key, ok, err := p.nextKey()
		if err != nil {
			return ref, err
		}
		if !ok {
			return ref, nil
		}
		value, err := p.readValue()
		if err != nil {
			return ref, err
		}
		if key == attrTrackID {
			if tid, parseErr := strconv.ParseInt(strings.TrimSpace(value), 10, 64); parseErr == nil {
				ref.trackID = tid
				ref.persistent = p.trackIDs[tid]
			}
		}
	}
}

// nextKey returns the text of the next <key> element within the current
// dict, or ok=false once the dict's end tag is reached.
func (p *parser) nextKey() (string, bool, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "key" {
				return "", false, fmt.Errorf("expected <key>, found <%s>", t.Name.Local)
			}
			text, err := p.elementText()
			if err != nil {
				return "", false, err
			}
			return text, true, nil
		case xml.EndElement:
			return "", false, nil
		}
	}
}

// readValue consumes the sibling value element following a key. Boolean
// markers carry no text; the marker name itself becomes the value.
func (p *parser) readValue() (string, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == markerTrue || t.Name.Local == markerFalse {
				if err := p.dec.Skip(); err != nil {
					return "", err
				}
				return t.Name.Local, nil
			}
			return p.elementText()
		case xml.EndElement:
			return "", fmt.Errorf("missing value element")
		}
	}
}

// skipValue discards the sibling value element following a key without
// interpreting it.
func (p *parser) skipValue() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			return p.dec.Skip()
		case xml.EndElement:
			return fmt.Errorf("missing value element to skip")
		}
	}
}

// elementText reads character data until the current element closes.
func (p *parser) elementText() (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		case xml.StartElement:
			if err := p.dec.Skip(); err != nil {
				return "", err
			}
		}
	}
}

func (p *parser) expectStart(name string) (xml.StartElement, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != name {
				return start, fmt.Errorf("expected <%s>, found <%s>", name, start.Name.Local)
			}
			return start, nil
		}
	}
}
