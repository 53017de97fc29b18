// Command attention-report runs one attention sweep and prints the digest
// as JSON. Useful for support investigations without touching the queue.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/service"
	"stayclean_backend/platform/config"
	"stayclean_backend/platform/db"
	"stayclean_backend/platform/logger"
)

func main() {
	windowDays := flag.Int("window", 7, "checkout window in days on each side of today")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	reasons, err := service.LoadReasonTable(cfg.GetReasonTablePath())
	if err != nil {
		log.Error("failed to load reason table", "error", err)
		panic("failed to load reason table: " + err.Error())
	}

	svc := service.New(repository.New(pool), reasons, log)

	digest, err := svc.BuildAttentionDigest(ctx, *windowDays)
	if err != nil {
		log.Error("attention sweep failed", "error", err)
		panic("attention sweep failed: " + err.Error())
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(digest); err != nil {
		panic("failed to encode digest: " + err.Error())
	}
}
