// Package archive persists the outcome of reconciliation runs and moves
// demoted files out of the library.
//
// The journal is a SQLite database with two tables: scans, one row per
// reconciliation run keyed by a UUID, and removals, one row per demoted
// track recording where its file was and where it went. The Archiver wraps
// the physical move (verified, collision-safe) and the journal write in one
// call, and in simulate mode journals without touching the filesystem.
package archive
