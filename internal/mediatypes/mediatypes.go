// Package mediatypes categorizes files by extension.
//
// It is a dependency-free foundation importable from anywhere in the tree
// without creating import cycles. The registry answers one question: does a
// path name an audio file the catalog should care about.
package mediatypes

import (
	"path"
	"strings"
)

// FileType represents the broad category of a library file.
type FileType string

const (
	// FileTypeAudio represents a playable audio file.
	FileTypeAudio FileType = "audio"
	// FileTypeDocument represents a library document (plist XML).
	FileTypeDocument FileType = "document"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// AudioExtensions maps lowercase file extensions to whether they are
// recognized audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".m4p":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".aif":  true,
	".aiff": true,
	".alac": true,
	".wma":  true,
}

// DocumentExtensions maps extensions of library documents.
var DocumentExtensions = map[string]bool{
	".xml":   true,
	".plist": true,
}

// Registry classifies file extensions, optionally widened with
// user-configured extras.
type Registry struct {
	extra map[string]bool
}

// NewRegistry builds a registry recognizing the built-in audio formats plus
// any extra extensions. Extras are normalized to lowercase with a leading
// dot so config values like "ape" and ".APE" both work.
func NewRegistry(extraAudio []string) *Registry {
	r := &Registry{}
	for _, ext := range extraAudio {
		norm := normalizeExt(ext)
		if norm == "." || norm == "" {
			continue
		}
		if r.extra == nil {
			r.extra = make(map[string]bool)
		}
		r.extra[norm] = true
	}
	return r
}

// IsAudio reports whether ext names a recognized audio format. The argument
// may be a bare extension (".mp3") or a full path.
func (r *Registry) IsAudio(ext string) bool {
	norm := normalizeExt(ext)
	if AudioExtensions[norm] {
		return true
	}
	return r != nil && r.extra[norm]
}

// TypeOf categorizes a path or extension.
func (r *Registry) TypeOf(path string) FileType {
	norm := normalizeExt(path)
	switch {
	case r.IsAudio(norm):
		return FileTypeAudio
	case DocumentExtensions[norm]:
		return FileTypeDocument
	default:
		return FileTypeOther
	}
}

func normalizeExt(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	// Locations may carry Windows separators that path.Ext would miss.
	s = strings.ReplaceAll(s, "\\", "/")
	if ext := path.Ext(s); ext != "" {
		return ext
	}
	if s == "" {
		return ""
	}
	return "." + s
}
