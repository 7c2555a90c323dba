package memory_test

import (
	"testing"

	"github.com/junipergrey/veil-oracle/internal/adapters/storage/memory"
	"github.com/junipergrey/veil-oracle/internal/adapters/storage/storagetest"
)

func TestSessionStore_Contract(t *testing.T) {
	storagetest.RunSessionStoreContract(t, memory.NewSessionStore())
}
