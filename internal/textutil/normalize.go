package textutil

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCaser = cases.Fold()

// Normalize trims surrounding whitespace and case-folds the value so that
// visually equal attribute values compare equal.
func Normalize(value string) string {
	return foldCaser.String(strings.TrimSpace(value))
}

// EqualFold reports whether two values are equal after normalization.
func EqualFold(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Title renders a value in title case for display output.
func Title(value string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(value))
}

// CompositeKey joins the normalized parts with a separator that cannot appear
// in a single part after normalization collapses nothing but case and edges.
// Empty parts are kept so that ("a", "", "c") and ("a", "c", "") stay distinct.
func CompositeKey(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, part := range parts {
		normalized[i] = Normalize(part)
	}
	return strings.Join(normalized, "\x1f")
}

// LocalPath converts a player file URL to a plain filesystem path. Percent
// escapes are decoded, a localhost authority is dropped, and a Windows drive
// letter loses its leading slash. Anything that is not a file URL comes back
// trimmed and otherwise untouched.
func LocalPath(location string) string {
	trimmed := strings.TrimSpace(location)
	if !strings.HasPrefix(strings.ToLower(trimmed), "file:") {
		return trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return p
}

// NormalizePath renders a file location in a canonical slash form for
// comparisons across the player's Windows-style and URL-style locations.
func NormalizePath(location string) string {
	slashed := strings.ReplaceAll(LocalPath(location), "\\", "/")
	return foldCaser.String(path.Clean(slashed))
}

// Extension returns the lowercase file extension of a location including the
// leading dot, or an empty string when the location has none.
func Extension(location string) string {
	slashed := strings.ReplaceAll(strings.TrimSpace(location), "\\", "/")
	return strings.ToLower(path.Ext(slashed))
}
