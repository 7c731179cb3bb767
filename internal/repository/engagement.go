package repository

import (
	"context"
)

func (r *Repository) MarkInterest(ctx context.Context, eventID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO event_interests (event_id, user_id)
VALUES ($1, $2)
ON CONFLICT (event_id, user_id) DO NOTHING;`, eventID, userID)
	return err
}

func (r *Repository) ClearInterest(ctx context.Context, eventID, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM event_interests WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	return err
}

func (r *Repository) CountInterested(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM event_interests WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}

func (r *Repository) IncrementViewCount(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
UPDATE events SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count;`, eventID).Scan(&count)
	return count, err
}
