package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/mguerin/compagnon/internal/config"
	"github.com/mguerin/compagnon/internal/engine"
	"github.com/mguerin/compagnon/internal/llm"
	"github.com/mguerin/compagnon/internal/server"
	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/internal/storage/memory"
	"github.com/mguerin/compagnon/internal/storage/postgres"
	"github.com/mguerin/compagnon/internal/storage/sqlite"
)

func main() {
	// Load .env when present; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	stores, closeStore, err := openStores(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(stores, engine.Config{
		MaxSessionMessages: cfg.Engine.MaxSessionMessages,
		RetentionDays:      cfg.Engine.RetentionDays,
		RecentWindow:       cfg.Engine.RecentWindow,
		Retrieval:          cfg.Retrieval,
	})

	generator, err := llm.NewTextGenerator(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if generator != nil {
		log.Printf("External generation enabled (%s)", generator.GetModel())
	}

	// Sweep idle sessions once a night.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 3 * * *", func() {
		removed, err := eng.Cleanup(context.Background(), cfg.Engine.RetentionDays)
		if err != nil {
			log.Printf("ERROR: session cleanup failed: %v", err)
			return
		}
		log.Printf("Session cleanup removed %d sessions", removed)
	}); err != nil {
		log.Fatalf("Failed to schedule cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	addr, _ := server.Start(ctx, cfg, eng, stores, generator)
	log.Printf("Compagnon API running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
}

// openStores builds the configured storage backend and returns the store
// bundle plus a close function.
func openStores(cfg *config.Config) (storage.Stores, func(), error) {
	switch cfg.Storage.StorageEngine {
	case "memory":
		store := memory.NewStore()
		return store.Stores(), func() { _ = store.Close() }, nil
	case "postgres":
		store, err := postgres.NewStore(cfg.Storage.PostgresDSN)
		if err != nil {
			return storage.Stores{}, nil, err
		}
		return store.Stores(), func() { _ = store.Close() }, nil
	default:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
			return storage.Stores{}, nil, err
		}
		store, err := sqlite.NewStore(cfg.Storage.DataPath + "/compagnon.db")
		if err != nil {
			return storage.Stores{}, nil, err
		}
		return store.Stores(), func() { _ = store.Close() }, nil
	}
}
