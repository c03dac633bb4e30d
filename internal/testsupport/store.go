package testsupport

import (
	"context"
	"testing"

	"reelpost/internal/config"
	"reelpost/internal/filestore"
	"reelpost/internal/release"
)

// MustOpenStore opens a filestore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *filestore.Store {
	t.Helper()

	store, err := filestore.Open(cfg)
	if err != nil {
		t.Fatalf("filestore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveFile stores a minimal record for key and fails the test on error.
func SaveFile(t testing.TB, store *filestore.Store, uniqueID string, key release.Key) {
	t.Helper()

	err := store.SaveFile(context.Background(), filestore.Record{
		FileUniqueID: uniqueID,
		FileID:       "file-" + uniqueID,
		FileName:     uniqueID + ".mkv",
		ReleaseKey:   key,
	})
	if err != nil {
		t.Fatalf("store.SaveFile: %v", err)
	}
}
