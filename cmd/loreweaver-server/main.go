package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thornquist/loreweaver/internal/config"
	"github.com/thornquist/loreweaver/internal/engine"
	"github.com/thornquist/loreweaver/internal/llm"
	"github.com/thornquist/loreweaver/internal/notify"
	"github.com/thornquist/loreweaver/internal/seed"
	"github.com/thornquist/loreweaver/internal/server"
	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/internal/storage/postgres"
	"github.com/thornquist/loreweaver/internal/storage/sqlite"
)

func main() {
	seedRoster := flag.Bool("seed", false, "Seed the character roster on startup")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	generator, err := llm.NewTextGenerator(ctx, llm.ProviderConfig{
		Provider: cfg.LLM.Provider,
		APIKey:   providerAPIKey(cfg),
		Model:    providerModel(cfg),
		BaseURL:  cfg.LLM.OllamaURL,
		Timeout:  cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}
	log.Printf("Using LLM provider %s (model %s)", cfg.LLM.Provider, generator.GetModel())

	engineCfg := engine.DefaultConfig()
	engineCfg.DefaultEventDuration = cfg.World.DefaultEventDuration
	eng, err := engine.New(store, llm.NewNarrator(generator), engineCfg)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	if *seedRoster {
		if _, err := seed.Characters(ctx, store); err != nil {
			log.Fatalf("Failed to seed characters: %v", err)
		}
	}

	// Optional world event outbox: happenings land as JSON files
	if cfg.World.EventOutboxPath != "" {
		writer, err := notify.NewOutboxWriter(cfg.World.EventOutboxPath)
		if err != nil {
			log.Fatalf("Failed to initialize event outbox: %v", err)
		}
		eng.AddBroadcaster(writer)
	}

	// Optional world event inbox: dropped JSON files become world events
	var watcher *notify.InboxWatcher
	if cfg.World.EventInboxPath != "" {
		watcher = notify.NewInboxWatcher(cfg.World.EventInboxPath, eng)
		if err := watcher.Start(); err != nil {
			log.Fatalf("Failed to start event inbox watcher: %v", err)
		}
	}

	addr, _ := server.Start(ctx, cfg, eng)
	log.Printf("Loreweaver API running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	if watcher != nil {
		watcher.Stop()
	}

	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
}

// openStore picks the storage backend from configuration.
func openStore(cfg *config.Config) (storage.WorldStore, error) {
	switch cfg.Storage.StorageEngine {
	case "postgres":
		return postgres.NewWorldStore(cfg.Storage.PostgresDSN)
	default:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o700); err != nil {
			return nil, err
		}
		return sqlite.NewWorldStore(cfg.Storage.DataPath + "/loreweaver.db")
	}
}

func providerAPIKey(cfg *config.Config) string {
	switch cfg.LLM.Provider {
	case "openai":
		return cfg.LLM.OpenAIAPIKey
	case "gemini":
		return cfg.LLM.GeminiAPIKey
	default:
		return ""
	}
}

func providerModel(cfg *config.Config) string {
	switch cfg.LLM.Provider {
	case "openai":
		return cfg.LLM.OpenAIModel
	case "gemini":
		return cfg.LLM.GeminiModel
	default:
		return cfg.LLM.OllamaModel
	}
}
