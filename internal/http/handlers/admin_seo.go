package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"townboard/backend/internal/http/middleware"
	"townboard/backend/internal/models"
	"townboard/backend/internal/seo"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultBackfillBatch = 100
	maxBackfillRows      = 5000
)

type backfillRequest struct {
	BatchSize int  `json:"batchSize"`
	MaxRows   int  `json:"maxRows"`
	DryRun    bool `json:"dryRun"`
}

// BackfillSEO sweeps events that still lack derived listing fields and
// fills what it can. The sweep pages by id so rows that stay underivable
// do not stall it.
func (h *Handler) BackfillSEO(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	req := backfillRequest{BatchSize: defaultBackfillBatch, MaxRows: maxBackfillRows}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.BatchSize <= 0 {
		req.BatchSize = defaultBackfillBatch
	}
	if req.MaxRows <= 0 || req.MaxRows > maxBackfillRows {
		req.MaxRows = maxBackfillRows
	}

	runID := uuid.NewString()
	runLogger := logger.With("run_id", runID)
	runLogger.Info("action", "action", "seo_backfill", "status", "started",
		"batch_size", req.BatchSize, "max_rows", req.MaxRows, "dry_run", req.DryRun)

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	start := time.Now()
	var scanned, updated, failed int
	var afterID int64
	for scanned < req.MaxRows {
		batchSize := req.BatchSize
		if remaining := req.MaxRows - scanned; remaining < batchSize {
			batchSize = remaining
		}
		batch, err := h.repo.ListEventsMissingSEO(ctx, afterID, batchSize)
		if err != nil {
			runLogger.Error("action", "action", "seo_backfill", "status", "list_failed", "error", err)
			writeError(w, http.StatusInternalServerError, "backfill list failed")
			return
		}
		if len(batch) == 0 {
			break
		}
		for _, event := range batch {
			afterID = event.ID
			scanned++
			enriched, missing := h.enricher.Enrich(ctx, event)
			if req.DryRun {
				continue
			}
			if err := h.repo.UpdateEventSEOFields(ctx, enriched); err != nil {
				failed++
				runLogger.Warn("action", "action", "seo_backfill", "status", "update_failed",
					"event_id", event.ID, "error", err)
				continue
			}
			updated++
			if len(missing) > 0 {
				runLogger.Info("action", "action", "seo_backfill", "status", "partial",
					"event_id", event.ID, "missing_fields", missing)
			}
		}
	}

	runLogger.Info("action", "action", "seo_backfill", "status", "finished",
		"scanned", scanned, "updated", updated, "failed", failed,
		"duration_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runId":   runID,
		"scanned": scanned,
		"updated": updated,
		"failed":  failed,
		"dryRun":  req.DryRun,
	})
}

type previewRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	EndDate     string `json:"endDate"`
	FeeRequired string `json:"feeRequired"`
}

// PreviewSEO derives listing fields for a posted payload without touching
// the database. The slug skips uniqueness probing, so the stored value may
// gain a numeric suffix.
func (h *Handler) PreviewSEO(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	preview := seo.NewEnricher(nil, logger)
	enriched, missing := preview.Enrich(r.Context(), models.Event{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		EndDate:     req.EndDate,
		FeeRequired: req.FeeRequired,
	})

	logger.Info("action", "action", "seo_preview", "status", "success", "slug", enriched.Slug)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"slug":             enriched.Slug,
		"city":             enriched.City,
		"state":            enriched.State,
		"country":          enriched.Country,
		"price":            enriched.Price,
		"currency":         enriched.Currency,
		"startDatetime":    enriched.StartDatetime,
		"endDatetime":      enriched.EndDatetime,
		"shortDescription": enriched.ShortDescription,
		"missingFields":    missing,
	})
}

type importEventsRequest struct {
	Events []createEventRequest `json:"events"`
}

func (h *Handler) ImportEvents(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req importEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "events are required")
		return
	}

	events := make([]models.Event, 0, len(req.Events))
	for _, item := range req.Events {
		events = append(events, models.Event{
			Title:       item.Title,
			Description: item.Description,
			Address:     item.Address,
			Website:     item.Website,
			Date:        item.Date,
			StartTime:   item.StartTime,
			EndTime:     item.EndTime,
			EndDate:     item.EndDate,
			FeeRequired: item.FeeRequired,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result := h.importer.ImportBatch(ctx, userID, events)
	logger.Info("action", "action", "import_events", "status", "finished",
		"batch_id", result.BatchID, "created", result.Created, "failed", result.Failed)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) PublishSitemap(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	if h.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	data, count, err := h.buildSitemap(ctx)
	if err != nil {
		logger.Error("action", "action", "publish_sitemap", "status", "build_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	publicURL, err := h.publisher.Publish(ctx, data)
	if err != nil {
		logger.Error("action", "action", "publish_sitemap", "status", "upload_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to publish sitemap")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":  publicURL,
		"urls": count,
	})
}

type hideEventRequest struct {
	Hidden *bool `json:"hidden"`
}

func (h *Handler) HideEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	hidden := true
	if r.Body != nil && r.ContentLength != 0 {
		var req hideEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Hidden != nil {
			hidden = *req.Hidden
		}
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if err := h.repo.SetEventHidden(ctx, eventID, hidden); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		logger.Error("action", "action", "hide_event", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}

	logger.Info("action", "action", "hide_event", "status", "success", "event_id", eventID, "hidden", hidden)
	writeJSON(w, http.StatusOK, map[string]interface{}{"eventId": eventID, "hidden": hidden})
}
