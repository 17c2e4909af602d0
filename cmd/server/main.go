package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ButyrinIA/qotd/internal/config"
	"github.com/ButyrinIA/qotd/internal/logger"
	"github.com/ButyrinIA/qotd/internal/server"
	"github.com/ButyrinIA/qotd/internal/storage"
	"github.com/ButyrinIA/qotd/internal/storage/memory"
	"github.com/ButyrinIA/qotd/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	storageType := flag.String("storage", "", "storage backend: memory or postgres (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *storageType != "" {
		cfg.Storage = *storageType
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid storage flag", "error", err)
			os.Exit(1)
		}
	}

	logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialise storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(cfg, store)
	if err := srv.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "server exited")
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		slog.InfoContext(ctx, "using postgres storage")
		return postgres.New(ctx, cfg.Postgres.DSN)
	default:
		slog.InfoContext(ctx, "using memory storage", "fixture", cfg.Fixture)
		return memory.Load(cfg.Fixture)
	}
}
