package repository

import (
	"context"
	"database/sql"
	"fmt"

	"townboard/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
INSERT INTO users (email, name, password_hash, is_admin)
VALUES ($1, $2, $3, $4)
RETURNING id, email, name, password_hash, is_admin, created_at, updated_at;`

	row := r.pool.QueryRow(ctx, query, user.Email, user.Name, user.PasswordHash, user.IsAdmin)
	var out models.User
	err := row.Scan(&out.ID, &out.Email, &out.Name, &out.PasswordHash, &out.IsAdmin, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, name, password_hash, is_admin, created_at, updated_at FROM users WHERE lower(email) = lower($1)`, email)
	var out models.User
	err := row.Scan(&out.ID, &out.Email, &out.Name, &out.PasswordHash, &out.IsAdmin, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, name, password_hash, is_admin, created_at, updated_at FROM users WHERE id = $1`, id)
	var out models.User
	err := row.Scan(&out.ID, &out.Email, &out.Name, &out.PasswordHash, &out.IsAdmin, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (r *Repository) CreateEvent(ctx context.Context, event models.Event) (int64, error) {
	query := `
INSERT INTO events (
	creator_user_id, title, description, address, website, source_host,
	date, start_time, end_time, end_date, fee_required,
	slug, city, state, country, price, currency,
	start_datetime, end_datetime, short_description, is_hidden
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9, $10, $11,
	$12, $13, $14, $15, $16, $17,
	$18, $19, $20, $21
) RETURNING id;`

	row := r.pool.QueryRow(ctx, query,
		event.CreatorUserID,
		event.Title,
		event.Description,
		nullString(event.Address),
		nullString(event.Website),
		nullString(event.SourceHost),
		nullString(event.Date),
		nullString(event.StartTime),
		nullString(event.EndTime),
		nullString(event.EndDate),
		nullString(event.FeeRequired),
		nullString(event.Slug),
		nullString(event.City),
		nullString(event.State),
		nullString(event.Country),
		event.Price,
		nullString(event.Currency),
		nullString(event.StartDatetime),
		nullString(event.EndDatetime),
		nullString(event.ShortDescription),
		event.IsHidden,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

const eventSelectColumns = `
	e.id, e.creator_user_id, e.title, e.description, e.address, e.website, e.source_host,
	e.date, e.start_time, e.end_time, e.end_date, e.fee_required,
	e.slug, e.city, e.state, e.country, e.price, e.currency,
	e.start_datetime, e.end_datetime, e.short_description,
	e.is_hidden, e.view_count, e.created_at, e.updated_at,
	u.name AS creator_name,
	(SELECT count(*) FROM event_interests WHERE event_id = e.id) AS interested_count,
	(SELECT EXISTS(SELECT 1 FROM event_interests WHERE event_id = e.id AND user_id = $1)) AS is_interested`

func (r *Repository) GetEventByID(ctx context.Context, eventID, viewerID int64) (models.Event, error) {
	query := `
SELECT` + eventSelectColumns + `
FROM events e
JOIN users u ON u.id = e.creator_user_id
WHERE e.id = $2;`
	return scanEvent(r.pool.QueryRow(ctx, query, viewerID, eventID))
}

func (r *Repository) GetEventBySlug(ctx context.Context, slug string, viewerID int64) (models.Event, error) {
	query := `
SELECT` + eventSelectColumns + `
FROM events e
JOIN users u ON u.id = e.creator_user_id
WHERE e.slug = $2;`
	return scanEvent(r.pool.QueryRow(ctx, query, viewerID, slug))
}

func (r *Repository) ListEvents(ctx context.Context, viewerID int64, city string, limit, offset int) ([]models.Event, int64, error) {
	query := `
SELECT` + eventSelectColumns + `,
	COUNT(*) OVER() AS total
FROM events e
JOIN users u ON u.id = e.creator_user_id
WHERE e.is_hidden = false`
	args := []interface{}{viewerID, limit, offset}
	if city != "" {
		cityIdx := len(args) + 1
		query += fmt.Sprintf(`
	AND lower(e.city) = lower($%d)`, cityIdx)
		args = append(args, city)
	}
	query += `
ORDER BY e.start_datetime ASC NULLS LAST, e.id DESC
LIMIT $2 OFFSET $3;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]models.Event, 0)
	var total int64
	for rows.Next() {
		event, rowTotal, err := scanEventWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = rowTotal
		out = append(out, event)
	}
	return out, total, rows.Err()
}

func (r *Repository) UpdateEvent(ctx context.Context, event models.Event) error {
	query := `
UPDATE events SET
	title = $2,
	description = $3,
	address = $4,
	website = $5,
	source_host = $6,
	date = $7,
	start_time = $8,
	end_time = $9,
	end_date = $10,
	fee_required = $11,
	slug = $12,
	city = $13,
	state = $14,
	country = $15,
	price = $16,
	currency = $17,
	start_datetime = $18,
	end_datetime = $19,
	short_description = $20,
	updated_at = now()
WHERE id = $1;`

	tag, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		nullString(event.Address),
		nullString(event.Website),
		nullString(event.SourceHost),
		nullString(event.Date),
		nullString(event.StartTime),
		nullString(event.EndTime),
		nullString(event.EndDate),
		nullString(event.FeeRequired),
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
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) SetEventHidden(ctx context.Context, eventID int64, hidden bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET is_hidden = $2, updated_at = now() WHERE id = $1`, eventID, hidden)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteEvent(ctx context.Context, eventID int64) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM event_interests WHERE event_id = $1`, eventID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *Repository) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// scanEvent reads one row in eventSelectColumns order.
func scanEvent(row pgx.Row) (models.Event, error) {
	var e models.Event
	var address, website, sourceHost sql.NullString
	var date, startTime, endTime, endDate, feeRequired sql.NullString
	var slug, city, state, country, currency sql.NullString
	var startDatetime, endDatetime, shortDescription sql.NullString
	var price sql.NullFloat64
	if err := row.Scan(
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
		&e.IsHidden,
		&e.ViewCount,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.CreatorName,
		&e.InterestedCount,
		&e.IsInterested,
	); err != nil {
		return models.Event{}, err
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
	return e, nil
}

// scanEventWithTotal reads one row in eventSelectColumns order followed by
// the COUNT(*) OVER() total.
func scanEventWithTotal(row pgx.Row) (models.Event, int64, error) {
	var e models.Event
	var total int64
	var address, website, sourceHost sql.NullString
	var date, startTime, endTime, endDate, feeRequired sql.NullString
	var slug, city, state, country, currency sql.NullString
	var startDatetime, endDatetime, shortDescription sql.NullString
	var price sql.NullFloat64
	if err := row.Scan(
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
		&e.IsHidden,
		&e.ViewCount,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.CreatorName,
		&e.InterestedCount,
		&e.IsInterested,
		&total,
	); err != nil {
		return models.Event{}, 0, err
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
	return e, total, nil
}

func nullString(val string) interface{} {
	if val == "" {
		return nil
	}
	return val
}
