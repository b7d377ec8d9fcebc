package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"movie_backend/internal/app/di"
	"movie_backend/internal/platform/config"
	"movie_backend/internal/platform/logging"
)

func main() {
	purge := flag.Bool("purge-cache", false, "delete cached resource names before syncing")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline for the sync run")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, *purge); err != nil {
		slog.Error("sync failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, purge bool) error {
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer container.Close()

	if purge {
		if err := container.Names.Purge(ctx); err != nil {
			return fmt.Errorf("failed to purge name cache: %w", err)
		}
		slog.Info("name cache purged")
	}

	res, err := container.Sync.Sync(ctx)
	if err != nil {
		return err
	}
	slog.Info("sync ok", "message", res.Message, "synced", len(res.SyncedMovies))
	return nil
}
