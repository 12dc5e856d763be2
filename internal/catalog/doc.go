// Package catalog holds the compact in-memory mirror of the media player's
// library document and the streaming parser that builds it.
//
// The document is an Apple property-list style XML file that can run to many
// megabytes for large libraries. Rather than materializing it, the parser
// makes a single forward pass and compacts every attribute name into a short
// code invented on first sight (see KeyMap), so the long-lived tree stores
// each name once. Tracks are keyed by their 64-bit persistent IDs, the only
// identity that survives player restarts; the session-scoped numeric track
// IDs are used solely to join playlist membership during a parse.
//
// The Catalog provides no internal locking. Callers follow a single-writer
// discipline: the librarian serializes every mutation, while queries may run
// from any goroutine once the catalog is ready. A catalog that failed to
// initialize answers every query with an empty result and ignores mutations.
package catalog
