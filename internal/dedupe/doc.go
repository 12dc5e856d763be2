// Package dedupe partitions a set of tracks into retained candidates and
// demoted duplicates.
//
// Tracks are grouped by a composite (artist, title, album) key. Within a
// complete key group, only tracks with exactly equal durations are compared;
// different durations mean metadata coincidence, not duplication. Within an
// incomplete key group, tracks must first resolve to the same online tag
// identifier before any comparison happens, and a track whose lookup failed
// is never compared at all.
//
// When two tracks are comparable, a ranked policy picks the keeper: bit rate,
// lyrics, artwork, rating, play count, then duration, with the incumbent
// winning ties. A demoted track whose file is also referenced by its winner
// is flagged for catalog-only removal so the archiver never deletes a file a
// retained track still points at.
package dedupe
