package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"townboard/backend/internal/models"
	"townboard/backend/internal/seo"
)

// EventStore is the slice of the repository the importer needs.
type EventStore interface {
	CreateEvent(ctx context.Context, event models.Event) (int64, error)
}

// Importer persists batches of externally sourced events, sanitizing and
// enriching each record on the way in.
type Importer struct {
	store    EventStore
	enricher *seo.Enricher
	logger   *slog.Logger
}

func NewImporter(store EventStore, enricher *seo.Enricher, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, enricher: enricher, logger: logger}
}

// ImportResult summarizes one batch. Items holds the per-record outcome in
// input order.
type ImportResult struct {
	BatchID string       `json:"batchId"`
	Created int          `json:"created"`
	Failed  int          `json:"failed"`
	Items   []ImportItem `json:"items"`
}

// ImportItem reports one imported record. Missing lists the SEO fields
// enrichment could not derive; Error is set when the record was skipped.
type ImportItem struct {
	Index   int      `json:"index"`
	EventID int64    `json:"eventId,omitempty"`
	Slug    string   `json:"slug,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ImportBatch sanitizes, enriches and stores the given events on behalf of
// creatorID. One bad record never aborts the batch; it is reported in its
// item and the rest proceed.
func (im *Importer) ImportBatch(ctx context.Context, creatorID int64, events []models.Event) ImportResult {
	result := ImportResult{
		BatchID: uuid.NewString(),
		Items:   make([]ImportItem, 0, len(events)),
	}
	logger := im.logger.With("batch_id", result.BatchID)
	logger.Info("action", "action", "import_events", "status", "started", "count", len(events))

	for i, event := range events {
		item := ImportItem{Index: i}
		if strings.TrimSpace(event.Title) == "" {
			item.Error = "title required"
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}

		event.CreatorUserID = creatorID
		event.Description = SanitizeDescription(event.Description)
		if event.SourceHost == "" && event.Website != "" {
			event.SourceHost = SourceHost(event.Website)
		}

		enriched, missing := im.enricher.Enrich(ctx, event)
		item.Missing = missing

		id, err := im.store.CreateEvent(ctx, enriched)
		if err != nil {
			logger.Warn("action", "action", "import_events", "status", "item_failed", "index", i, "error", err)
			item.Error = err.Error()
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}
		item.EventID = id
		item.Slug = enriched.Slug
		result.Created++
		result.Items = append(result.Items, item)
	}

	logger.Info("action", "action", "import_events", "status", "finished",
		"created", result.Created, "failed", result.Failed)
	return result
}
