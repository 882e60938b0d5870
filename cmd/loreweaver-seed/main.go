// Command loreweaver-seed loads the embedded character roster into the
// configured storage backend. Running it twice is safe; characters are
// upserted by ID.
package main

import (
	"context"
	"log"
	"os"

	"github.com/thornquist/loreweaver/internal/config"
	"github.com/thornquist/loreweaver/internal/seed"
	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/internal/storage/postgres"
	"github.com/thornquist/loreweaver/internal/storage/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var store storage.WorldStore
	switch cfg.Storage.StorageEngine {
	case "postgres":
		store, err = postgres.NewWorldStore(cfg.Storage.PostgresDSN)
	default:
		if err = os.MkdirAll(cfg.Storage.DataPath, 0o700); err == nil {
			store, err = sqlite.NewWorldStore(cfg.Storage.DataPath + "/loreweaver.db")
		}
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	characters, err := seed.Characters(context.Background(), store)
	if err != nil {
		log.Fatalf("Failed to seed characters: %v", err)
	}
	log.Printf("Seeded %d characters", len(characters))
}
