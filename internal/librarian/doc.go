// Package librarian orchestrates the catalog, the change classifier, the
// reconciliation engine, and the archive journal behind one single-writer
// surface guarded by a file lock.
package librarian
