package testsupport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Track describes one track entry in a generated library document.
type Track struct {
	ID           int
	PersistentID string
	Name         string
	Artist       string
	Album        string
	Genre        string
	Kind         string
	Size         int
	TotalTime    int
	BitRate      int
	Rating       int
	PlayCount    int
	Location     string
	Loved        bool
}

// Playlist describes one playlist entry in a generated library document.
type Playlist struct {
	Name         string
	PlaylistID   int
	PersistentID string
	Master       bool
	Smart        bool
	TrackIDs     []int
}

// Library describes a whole generated library document.
type Library struct {
	Attrs     map[string]string
	Tracks    []Track
	Playlists []Playlist
}

// WriteLibraryDocument renders the library as the player's property-list XML
// and writes it to path, creating parent directories as needed.
func WriteLibraryDocument(t testing.TB, path string, lib Library) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(RenderLibraryDocument(lib)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// AdvanceDocumentModTime bumps the document's modification time so staleness
// checks see a rewrite.
func AdvanceDocumentModTime(t testing.TB, path string) {
	t.Helper()

	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// RenderLibraryDocument renders the property-list text without touching disk.
func RenderLibraryDocument(lib Library) string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple Computer//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	sb.WriteString("<plist version=\"1.0\">\n<dict>\n")

	writeKV(&sb, 1, "Major Version", "integer", "1")
	writeKV(&sb, 1, "Application Version", "string", "12.9.0.167")
	for name, value := range lib.Attrs {
		writeKV(&sb, 1, name, "string", value)
	}

	sb.WriteString("\t<key>Tracks</key>\n\t<dict>\n")
	for _, track := range lib.Tracks {
		fmt.Fprintf(&sb, "\t\t<key>%d</key>\n\t\t<dict>\n", track.ID)
		writeKV(&sb, 3, "Track ID", "integer", fmt.Sprint(track.ID))
		writeKV(&sb, 3, "Name", "string", track.Name)
		if track.Artist != "" {
			writeKV(&sb, 3, "Artist", "string", track.Artist)
		}
		if track.Album != "" {
			writeKV(&sb, 3, "Album", "string", track.Album)
		}
		if track.Genre != "" {
			writeKV(&sb, 3, "Genre", "string", track.Genre)
		}
		if track.Kind != "" {
			writeKV(&sb, 3, "Kind", "string", track.Kind)
		}
		if track.Size > 0 {
			writeKV(&sb, 3, "Size", "integer", fmt.Sprint(track.Size))
		}
		if track.TotalTime > 0 {
			writeKV(&sb, 3, "Total Time", "integer", fmt.Sprint(track.TotalTime))
		}
		if track.BitRate > 0 {
			writeKV(&sb, 3, "Bit Rate", "integer", fmt.Sprint(track.BitRate))
		}
		if track.Rating > 0 {
			writeKV(&sb, 3, "Rating", "integer", fmt.Sprint(track.Rating))
		}
		if track.PlayCount > 0 {
			writeKV(&sb, 3, "Play Count", "integer", fmt.Sprint(track.PlayCount))
		}
		if track.Loved {
			sb.WriteString("\t\t\t<key>Loved</key><true/>\n")
		}
		if track.Location != "" {
			writeKV(&sb, 3, "Location", "string", track.Location)
		}
		writeKV(&sb, 3, "Persistent ID", "string", track.PersistentID)
		sb.WriteString("\t\t</dict>\n")
	}
	sb.WriteString("\t</dict>\n")

	sb.WriteString("\t<key>Playlists</key>\n\t<array>\n")
	for _, playlist := range lib.Playlists {
		sb.WriteString("\t\t<dict>\n")
		writeKV(&sb, 3, "Name", "string", playlist.Name)
		if playlist.Master {
			sb.WriteString("\t\t\t<key>Master</key><true/>\n")
		}
		writeKV(&sb, 3, "Playlist ID", "integer", fmt.Sprint(playlist.PlaylistID))
		writeKV(&sb, 3, "Playlist Persistent ID", "string", playlist.PersistentID)
		if playlist.Smart {
			writeKV(&sb, 3, "Smart Info", "data", "AQEAAwAAAAIAAAAZAAAAAA==")
			writeKV(&sb, 3, "Smart Criteria", "data", "U0xzdAABAAEAAAADAAAAAQ==")
		}
		sb.WriteString("\t\t\t<key>All Items</key><true/>\n")
		if len(playlist.TrackIDs) > 0 {
			sb.WriteString("\t\t\t<key>Playlist Items</key>\n\t\t\t<array>\n")
			for _, id := range playlist.TrackIDs {
				fmt.Fprintf(&sb, "\t\t\t\t<dict>\n\t\t\t\t\t<key>Track ID</key><integer>%d</integer>\n\t\t\t\t</dict>\n", id)
			}
			sb.WriteString("\t\t\t</array>\n")
		}
		sb.WriteString("\t\t</dict>\n")
	}
	sb.WriteString("\t</array>\n")

	sb.WriteString("</dict>\n</plist>\n")
	return sb.String()
}

func writeKV(sb *strings.Builder, indent int, key, elem, value string) {
	tabs := strings.Repeat("\t", indent)
	fmt.Fprintf(sb, "%s<key>%s</key><%s>%s</%s>\n", tabs, escapeXML(key), elem, escapeXML(value), elem)
}

func escapeXML(value string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.String()
}
