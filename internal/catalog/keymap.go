package catalog

import (
	"strconv"
	"strings"
)

// KeyMap is the bidirectional table of long attribute names and the short
// codes that replace them throughout the compact tree. Codes are invented the
// first time a name is seen and never change or disappear for the lifetime of
// the owning catalog, so a code stored in a record stays resolvable forever.
type KeyMap struct {
	codes map[string]string // long name -> code
	names map[string]string // code -> long name
}

// NewKeyMap returns an empty table.
func NewKeyMap() *KeyMap {
	return &KeyMap{
		codes: make(map[string]string),
		names: make(map[string]string),
	}
}

// Code returns the short code for name, assigning one on first use. The
// candidate code concatenates the first two characters of each space-delimited
// word; collisions append an incrementing numeric suffix until unique.
func (m *KeyMap) Code(name string) string {
	if code, ok := m.codes[name]; ok {
		return code
	}
	base := abbreviate(name)
	code := base
	for suffix := 1; ; suffix++ {
		if _, taken := m.names[code]; !taken {
			break
		}
		code = base + strconv.Itoa(suffix)
	}
	m.codes[name] = code
	m.names[code] = name
	return code
}

// Lookup returns the code for name without assigning one.
func (m *KeyMap) Lookup(name string) (string, bool) {
	code, ok := m.codes[name]
	return code, ok
}

// Name resolves a code back to its long attribute name.
func (m *KeyMap) Name(code string) (string, bool) {
	name, ok := m.names[code]
	return name, ok
}

// Len reports how many names have been assigned codes.
func (m *KeyMap) Len() int {
	return len(m.codes)
}

func abbreviate(name string) string {
	var sb strings.Builder
	for _, word := range strings.Fields(name) {
		runes := []rune(word)
		if len(runes) > 2 {
			runes = runes[:2]
		}
		sb.WriteString(string(runes))
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
