package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/junipergrey/veil-oracle/internal/adapters/storage/sqlite"
	"github.com/junipergrey/veil-oracle/internal/adapters/storage/storagetest"
)

func TestStore_Contract(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "oracle.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	storagetest.RunSessionStoreContract(t, store)
}
