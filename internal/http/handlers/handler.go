package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"townboard/backend/internal/config"
	authmw "townboard/backend/internal/http/middleware"
	"townboard/backend/internal/ingest"
	"townboard/backend/internal/rate"
	"townboard/backend/internal/repository"
	"townboard/backend/internal/seo"
	"townboard/backend/internal/sitemap"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	repo            *repository.Repository
	enricher        *seo.Enricher
	importer        *ingest.Importer
	publisher       *sitemap.Publisher
	cfg             *config.Config
	logger          *slog.Logger
	validator       *validator.Validate
	createLimiter   *rate.WindowLimiter
	interestLimiter *rate.WindowLimiter
	viewLimiter     *rate.WindowLimiter
}

func New(repo *repository.Repository, enricher *seo.Enricher, importer *ingest.Importer, publisher *sitemap.Publisher, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:            repo,
		enricher:        enricher,
		importer:        importer,
		publisher:       publisher,
		cfg:             cfg,
		logger:          logger,
		validator:       validator.New(),
		createLimiter:   rate.NewWindowLimiter(5, time.Hour),
		interestLimiter: rate.NewWindowLimiter(10, time.Minute),
		viewLimiter:     rate.NewWindowLimiter(30, time.Minute),
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (h *Handler) loggerForRequest(r *http.Request) *slog.Logger {
	logger := h.logger
	if logger == nil {
		return slog.Default()
	}
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if userID, ok := authmw.UserIDFromContext(r.Context()); ok {
		logger = logger.With("user_id", userID)
	}
	return logger
}
