// The sweeper advances stale scheduled/pending sessions to completed. It
// is meant to be run periodically by the host scheduler (cron), one sweep
// per invocation.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/arman-d/DermaCareBack/internal/cache"
	"github.com/arman-d/DermaCareBack/internal/config"
	"github.com/arman-d/DermaCareBack/internal/database"
	"github.com/arman-d/DermaCareBack/internal/repository"
	"github.com/arman-d/DermaCareBack/internal/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report candidates without writing")
	maxAgeDays := flag.Int("max-age-days", services.DefaultSweepMaxAgeDays, "trailing window of eligible scheduled dates")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	var cacheSvc cache.CacheService = cache.Noop{}
	if cfg.RedisAddr != "" {
		cacheSvc = cache.NewRedisCache(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	}

	sessionRepo := repository.NewSessionRepository(database.DB)
	sweep := services.NewSweepService(sessionRepo, cacheSvc)

	result, err := sweep.Run(context.Background(), services.SweepInput{
		DryRun:     *dryRun,
		MaxAgeDays: *maxAgeDays,
	})
	if err != nil {
		log.Fatalf("Sweep aborted: %v", err)
	}

	log.Printf("Sweep finished: updated=%d skipped=%d errors=%d", result.Updated, result.Skipped, len(result.Errors))
	for _, message := range result.Errors {
		log.Printf("  %s", message)
	}
}
