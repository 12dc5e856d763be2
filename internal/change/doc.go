// Package change classifies raw library-change notifications from the live
// player into semantic maintenance actions.
//
// A notification is a rectangular array of four-integer tuples naming
// player-session object identifiers. The player reports what changed but not
// why; the classifier infers the intent from the shape of the tuple sequence.
// Notifications that match no known shape yield no action and are silently
// dropped by the caller.
package change
