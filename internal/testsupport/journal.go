package testsupport

import (
	"testing"

	"orpheus/internal/archive"
	"orpheus/internal/config"
)

// OpenJournal opens an archive journal under the config's state directory
// and closes it when the test ends.
func OpenJournal(t testing.TB, cfg *config.Config) *archive.Store {
	t.Helper()
	store, err := archive.Open(cfg)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
