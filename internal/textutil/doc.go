// Package textutil provides the text normalization helpers shared by catalog
// matching and duplicate reconciliation.
//
// Attribute values coming out of the player's library document carry
// inconsistent casing and stray whitespace, so every comparison in the system
// goes through Normalize (trim + Unicode case folding) rather than raw string
// equality. CompositeKey builds the (artist, title, album) grouping key the
// reconciliation engine partitions candidates by.
package textutil
