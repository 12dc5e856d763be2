package catalog_test

import (
	"testing"

	"orpheus/internal/catalog"
)

func TestKeyMapAbbreviatesWords(t *testing.T) {
	keys := catalog.NewKeyMap()
	cases := map[string]string{
		"Disc Number":   "DiNu",
		"Name":          "Na",
		"Play Date UTC": "PlDaUT",
		"Bit Rate":      "BiRa",
	}
	for name, want := range cases {
		if got := keys.Code(name); got != want {
			t.Errorf("Code(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestKeyMapCodesAreStable(t *testing.T) {
	keys := catalog.NewKeyMap()
	first := keys.Code("Track Number")
	if again := keys.Code("Track Number"); again != first {
		t.Fatalf("code changed between calls: %q vs %q", first, again)
	}
}

func TestKeyMapCollisionsGetSuffixes(t *testing.T) {
	keys := catalog.NewKeyMap()
	composer := keys.Code("Composer")
	comments := keys.Code("Comments")
	if composer != "Co" {
		t.Fatalf("first code = %q, want Co", composer)
	}
	if comments != "Co1" {
		t.Fatalf("second code = %q, want Co1", comments)
	}
	another := keys.Code("Container")
	if another != "Co2" {
		t.Fatalf("third code = %q, want Co2", another)
	}
}

func TestKeyMapDeterministicAcrossInstances(t *testing.T) {
	names := []string{"Name", "Artist", "Album", "Album Artist", "Artwork Count", "Track ID", "Total Time"}
	a := catalog.NewKeyMap()
	b := catalog.NewKeyMap()
	for _, name := range names {
		if a.Code(name) != b.Code(name) {
			t.Fatalf("code for %q differs across instances seeing the same order", name)
		}
	}
}

func TestKeyMapResolvesBothDirections(t *testing.T) {
	keys := catalog.NewKeyMap()
	code := keys.Code("Sample Rate")
	name, ok := keys.Name(code)
	if !ok || name != "Sample Rate" {
		t.Fatalf("Name(%q) = %q, %v", code, name, ok)
	}
	if _, ok := keys.Lookup("Unseen Attribute"); ok {
		t.Fatal("Lookup must not assign codes")
	}
	if keys.Len() != 1 {
		t.Fatalf("Len = %d, want 1", keys.Len())
	}
}
