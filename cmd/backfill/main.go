package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"townboard/backend/internal/config"
	"townboard/backend/internal/db"
	"townboard/backend/internal/logging"
	"townboard/backend/internal/repository"
	"townboard/backend/internal/seo"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func main() {
	batchFlag := flag.Int("batch", 100, "rows fetched per query")
	rateFlag := flag.Float64("rate", 50, "max row updates per second")
	dryRunFlag := flag.Bool("dry-run", false, "derive fields without writing them back")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("log error: %v", err)
	}
	defer func() {
		_ = cleanup()
	}()
	logger = logger.With("service", "backfill", "run_id", uuid.NewString())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db error", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.New(pool)
	enricher := seo.NewEnricher(repo.SlugExists, logger)
	limiter := rate.NewLimiter(rate.Limit(*rateFlag), 1)

	logger.Info("action", "action", "seo_backfill", "status", "started",
		"batch", *batchFlag, "rate", *rateFlag, "dry_run", *dryRunFlag)

	start := time.Now()
	var afterID int64
	var scanned, updated, failed, partial int
	for {
		batch, err := repo.ListEventsMissingSEO(ctx, afterID, *batchFlag)
		if err != nil {
			logger.Error("action", "action", "seo_backfill", "status", "list_failed", "error", err)
			os.Exit(1)
		}
		if len(batch) == 0 {
			break
		}
		for _, event := range batch {
			afterID = event.ID
			scanned++
			if err := limiter.Wait(ctx); err != nil {
				logger.Warn("action", "action", "seo_backfill", "status", "interrupted",
					"scanned", scanned, "updated", updated, "failed", failed)
				os.Exit(1)
			}
			enriched, missing := enricher.Enrich(ctx, event)
			if len(missing) > 0 {
				partial++
				logger.Info("action", "action", "seo_backfill", "status", "partial",
					"event_id", event.ID, "missing_fields", missing)
			}
			if *dryRunFlag {
				continue
			}
			if err := repo.UpdateEventSEOFields(ctx, enriched); err != nil {
				failed++
				logger.Warn("action", "action", "seo_backfill", "status", "update_failed",
					"event_id", event.ID, "error", err)
				continue
			}
			updated++
		}
	}

	logger.Info("action", "action", "seo_backfill", "status", "finished",
		"scanned", scanned,
		"updated", updated,
		"failed", failed,
		"partial", partial,
		"dry_run", *dryRunFlag,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
