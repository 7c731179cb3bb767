package repository

import (
	"context"
	"database/sql"

	"townboard/backend/internal/models"
)

// SlugExists reports whether another event already holds the candidate slug.
// excludeID skips the event being updated so it does not collide with itself;
// pass 0 when creating a new event.
func (r *Repository) SlugExists(ctx context.Context, candidate string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1 AND ($2 = 0 OR id <> $2))`,
		candidate, excludeID,
	).Scan(&exists)
	return exists, err
}

// ListEventsMissingSEO pages through events that still lack one or more
// derived listing fields. Callers pass the last seen id as afterID so a
// sweep makes progress even when some rows stay underivable.
func (r *Repository) ListEventsMissingSEO(ctx context.Context, afterID int64, limit int) ([]models.Event, error) {
	query := `
SELECT
	id, creator_user_id, title, description, address, website, source_host,
	date, start_time, end_time, end_date, fee_required,
	slug, city, state, country, price, currency,
	start_datetime, end_datetime, short_description
FROM events
WHERE id > $1
	AND (
		slug IS NULL OR slug = ''
		OR city IS NULL OR city = ''
		OR state IS NULL OR state = ''
		OR country IS NULL OR country = ''
		OR price IS NULL
		OR currency IS NULL OR currency = ''
		OR start_datetime IS NULL OR start_datetime = ''
		OR short_description IS NULL OR short_description = ''
	)
ORDER BY id ASC
LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		var address, website, sourceHost sql.NullString
		var date, startTime, endTime, endDate, feeRequired sql.NullString
		var slug, city, state, country, currency sql.NullString
		var startDatetime, endDatetime, shortDescription sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(
			&e.ID,
			&e.CreatorUserID,
			&e.Title,
			&e.Description,
			&address,
			&website,
			&sourceHost,
			&date,
			&startTime,
			&endTime,
			&endDate,
			&feeRequired,
			&slug,
			&city,
			&state,
			&country,
			&price,
			&currency,
			&startDatetime,
			&endDatetime,
			&shortDescription,
		); err != nil {
			return nil, err
		}
		e.Address = address.String
		e.Website = website.String
		e.SourceHost = sourceHost.String
		e.Date = date.String
		e.StartTime = startTime.String
		e.EndTime = endTime.String
		e.EndDate = endDate.String
		e.FeeRequired = feeRequired.String
		e.Slug = slug.String
		e.City = city.String
		e.State = state.String
		e.Country = country.String
		e.Currency = currency.String
		e.StartDatetime = startDatetime.String
		e.EndDatetime = endDatetime.String
		e.ShortDescription = shortDescription.String
		if price.Valid {
			value := price.Float64
			e.Price = &value
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateEventSEOFields writes only the derived listing columns.
func (r *Repository) UpdateEventSEOFields(ctx context.Context, event models.Event) error {
	query := `
UPDATE events SET
	slug = $2,
	city = $3,
	state = $4,
	country = $5,
	price = $6,
	currency = $7,
	start_datetime = $8,
	end_datetime = $9,
	short_description = $10,
	updated_at = now()
WHERE id = $1;`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		nullString(event.Slug),
		nullString(event.City),
		nullString(event.State),
		nullString(event.Country),
		event.Price,
		nullString(event.Currency),
		nullString(event.StartDatetime),
		nullString(event.EndDatetime),
		nullString(event.ShortDescription),
	)
	return err
}

// ListSitemapEntries returns slug and last update time for every visible
// event that has a slug, newest first.
func (r *Repository) ListSitemapEntries(ctx context.Context) ([]models.SitemapEntry, error) {
	rows, err := r.pool.Query(ctx, `
SELECT slug, updated_at
FROM events
WHERE is_hidden = false AND slug IS NOT NULL AND slug <> ''
ORDER BY updated_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SitemapEntry, 0)
	for rows.Next() {
		var entry models.SitemapEntry
		if err := rows.Scan(&entry.Slug, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
