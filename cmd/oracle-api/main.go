package main

import (
	"context"
	"net/http"
	"os"

	httpadapter "github.com/junipergrey/veil-oracle/internal/adapters/http"
	"github.com/junipergrey/veil-oracle/internal/adapters/llm"
	firestorestore "github.com/junipergrey/veil-oracle/internal/adapters/storage/firestore"
	memstore "github.com/junipergrey/veil-oracle/internal/adapters/storage/memory"
	redisstore "github.com/junipergrey/veil-oracle/internal/adapters/storage/redis"
	sqlitestore "github.com/junipergrey/veil-oracle/internal/adapters/storage/sqlite"
	"github.com/junipergrey/veil-oracle/internal/app/journey"
	"github.com/junipergrey/veil-oracle/internal/config"
	"github.com/junipergrey/veil-oracle/internal/domain"
	"github.com/junipergrey/veil-oracle/internal/observability"
)

func main() {
	ctx := context.Background()
	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Generator: mock for local/dev, Gemini otherwise. Either way the state
	// machine only ever sees the fallback-absorbing wrapper.
	var inner domain.ContentGenerator
	if cfg.UseMockLLM {
		log.Info("using mock content generator")
		inner = llm.NewMockGenerator()
	} else {
		log.Info("using Gemini content generator", "model", cfg.ModelName)
		inner, err = llm.NewGeminiGenerator(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Error("failed to initialize Gemini generator", "error", err)
			os.Exit(1)
		}
	}
	generator := llm.NewResilient(inner)

	var store domain.SessionStore
	switch cfg.StorageBackend {
	case config.StorageRedis:
		log.Info("using redis session store", "addr", cfg.RedisAddr)
		store = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	case config.StorageSQLite:
		log.Info("using sqlite session store", "path", cfg.SQLitePath)
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			log.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s

	case config.StorageFirestore:
		log.Info("using firestore session store", "project", cfg.GCPProjectID)
		s, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Error("failed to initialize firestore store", "error", err)
			os.Exit(1)
		}
		store = s

	default:
		log.Info("using in-memory session store")
		store = memstore.NewSessionStore()
	}

	svc := journey.NewService(generator, store)
	handler := httpadapter.NewServer(svc)

	addr := ":" + cfg.Port
	log.Info("oracle API listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
