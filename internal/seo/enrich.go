package seo

import (
	"context"
	"errors"
	"log/slog"

	"townboard/backend/internal/models"
)

// Enricher derives the SEO fields of an event record: location, slug,
// price, start/end timestamps, short description and the country/currency
// defaults. Every unit is best effort; a field that cannot be derived
// stays empty instead of failing the enrichment.
type Enricher struct {
	exists SlugExistsFunc
	logger *slog.Logger
}

// NewEnricher creates an enricher probing slug uniqueness through exists.
// A nil exists skips uniqueness resolution (useful for previews).
func NewEnricher(exists SlugExistsFunc, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{exists: exists, logger: logger}
}

// Enrich fills the derived fields the caller left empty and reports the
// names of those that stayed underivable. Populated fields are never
// overwritten, so re-running enrichment is a no-op. Enrich never fails:
// unit errors degrade to empty fields plus a warning log, and callers are
// expected to persist the record regardless.
func (e *Enricher) Enrich(ctx context.Context, event models.Event) (models.Event, []string) {
	var missing []string

	if event.City == "" || event.State == "" {
		loc := ExtractLocation(event.Address)
		if event.City == "" {
			event.City = loc.City
		}
		if event.State == "" {
			event.State = loc.State
		}
	}
	if event.City == "" {
		missing = append(missing, "city")
	}
	if event.State == "" {
		missing = append(missing, "state")
	}

	// City feeds the slug, so location resolution runs first.
	if event.Slug == "" {
		slug, err := GenerateUniqueSlug(ctx, event.Title, event.City, e.exists, event.ID)
		switch {
		case errors.Is(err, ErrSlugProbesExhausted):
			e.logger.Warn("slug probes exhausted", "event_id", event.ID, "slug", slug)
			event.Slug = slug
		case err != nil:
			e.logger.Warn("slug uniqueness check failed", "event_id", event.ID, "error", err)
			missing = append(missing, "slug")
		default:
			event.Slug = slug
		}
	}

	if event.Price == nil {
		price := NormalizePrice(event.FeeRequired)
		event.Price = &price
	}

	if event.StartDatetime == "" || event.EndDatetime == "" {
		rng, err := ComposeDateTimes(event.Date, event.StartTime, event.EndTime, event.EndDate)
		if err != nil {
			e.logger.Warn("datetime composition failed", "event_id", event.ID, "error", err)
		}
		if event.StartDatetime == "" {
			event.StartDatetime = rng.Start
		}
		if event.EndDatetime == "" {
			event.EndDatetime = rng.End
		}
	}
	if event.StartDatetime == "" {
		missing = append(missing, "start_datetime")
	}
	if event.EndDatetime == "" {
		missing = append(missing, "end_datetime")
	}

	if event.ShortDescription == "" {
		event.ShortDescription = Summarize(event.Description, MaxShortDescription)
	}
	if event.ShortDescription == "" {
		missing = append(missing, "short_description")
	}

	if event.Country == "" {
		event.Country = "USA"
	}
	if event.Currency == "" {
		event.Currency = "USD"
	}
	return event, missing
}
