package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"townboard/backend/internal/config"
	"townboard/backend/internal/db"
	"townboard/backend/internal/http/handlers"
	"townboard/backend/internal/http/middleware"
	"townboard/backend/internal/ingest"
	"townboard/backend/internal/integrations"
	"townboard/backend/internal/logging"
	"townboard/backend/internal/repository"
	"townboard/backend/internal/seo"
	"townboard/backend/internal/sitemap"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func main() {
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
	logger = logger.With("service", "api")
	slog.SetDefault(logger)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db error", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.New(pool)
	enricher := seo.NewEnricher(repo.SlugExists, logger)
	importer := ingest.NewImporter(repo, enricher, logger)

	var publisher *sitemap.Publisher
	if cfg.S3.Bucket != "" {
		s3Client, err := integrations.NewS3(ctx, cfg.S3)
		if err != nil {
			logger.Error("s3 error", "error", err)
			os.Exit(1)
		}
		publisher = sitemap.NewPublisher(s3Client, logger)
	}

	h := handlers.New(repo, enricher, importer, publisher, cfg, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/sitemap.xml", h.GetSitemap)

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
		r.Get("/events", h.ListEvents)
		r.Get("/events/{id}", h.GetEvent)
		r.Get("/events/slug/{slug}", h.GetEventBySlug)
		r.Post("/events/{id}/view", h.ViewEvent)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		r.Get("/me", h.Me)
		r.Post("/events", h.CreateEvent)
		r.Patch("/events/{id}", h.UpdateEvent)
		r.Delete("/events/{id}", h.DeleteEvent)
		r.Post("/events/{id}/interest", h.MarkInterest)
		r.Delete("/events/{id}/interest", h.ClearInterest)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.AdminEmails))
			r.Post("/admin/seo/backfill", h.BackfillSEO)
			r.Post("/admin/seo/preview", h.PreviewSEO)
			r.Post("/admin/import/events", h.ImportEvents)
			r.Post("/admin/sitemap/publish", h.PublishSitemap)
			r.Post("/admin/events/{id}/hide", h.HideEvent)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("api_listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown", "service", "api")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
