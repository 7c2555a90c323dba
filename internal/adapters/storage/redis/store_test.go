package redis_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	redisstore "github.com/junipergrey/veil-oracle/internal/adapters/storage/redis"
	"github.com/junipergrey/veil-oracle/internal/adapters/storage/storagetest"
)

func TestStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redisstore.NewFromClient(client)
	storagetest.RunSessionStoreContract(t, store)
}
