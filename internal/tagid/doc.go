// Package tagid resolves tracks to canonical identifiers through an online
// tag-identification service.
//
// Reconciliation needs it for tracks whose (artist, title, album) key is
// incomplete: two such tracks are only comparable once both resolve to the
// same service identifier. A lookup failure deliberately leaves a track
// unanalyzed rather than guessed at; the engine treats unanalyzed tracks as
// always distinct so an unreachable service can never cause a false-positive
// deletion.
package tagid
