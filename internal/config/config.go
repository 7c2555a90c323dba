package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type StorageBackend string

const (
	StorageMemory    StorageBackend = "memory"
	StorageRedis     StorageBackend = "redis"
	StorageSQLite    StorageBackend = "sqlite"
	StorageFirestore StorageBackend = "firestore"
)

type Config struct {
	Port string `env:"ORACLE_PORT" envDefault:"8080"`

	StorageBackend StorageBackend `env:"ORACLE_STORAGE_BACKEND" envDefault:"memory"`

	// UseMockLLM forces the deterministic offline generator; handy for dev
	// and the default when no GCP project is configured.
	UseMockLLM bool `env:"ORACLE_USE_MOCK_LLM"`

	GCPProjectID string `env:"ORACLE_GCP_PROJECT"`
	GCPLocation  string `env:"ORACLE_GCP_LOCATION" envDefault:"us-central1"`
	ModelName    string `env:"ORACLE_MODEL_NAME" envDefault:"gemini-2.5-flash"`

	RedisAddr     string `env:"ORACLE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"ORACLE_REDIS_PASSWORD"`
	RedisDB       int    `env:"ORACLE_REDIS_DB"`

	SQLitePath string `env:"ORACLE_SQLITE_PATH" envDefault:"oracle.db"`
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.StorageBackend {
	case StorageMemory, StorageRedis, StorageSQLite, StorageFirestore:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.StorageBackend == StorageFirestore && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("ORACLE_GCP_PROJECT must be set for the firestore backend")
	}
	if !cfg.UseMockLLM && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("ORACLE_GCP_PROJECT must be set unless ORACLE_USE_MOCK_LLM=true")
	}

	return cfg, nil
}
