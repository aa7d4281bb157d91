package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
)

type watchHistoryRepository struct {
	db *sqlx.DB
}

func NewWatchHistoryRepository(db *sqlx.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

// Record upserts a watch event. Re-watching bumps watched_at so the video
// moves to the front of the history.
func (r *watchHistoryRepository) Record(ctx context.Context, userID, videoID int64) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch event: %w", err)
	}
	return nil
}

// List returns the watch history most-recent-first with the nested
// video -> owner join (both strict: deleted videos drop out of history).
func (r *watchHistoryRepository) List(ctx context.Context, userID int64, p pagination.Params) ([]model.WatchHistoryEntry, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM watch_history w
		JOIN videos v ON v.id = w.video_id
		WHERE w.user_id = $1
	`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count watch history: %w", err)
	}

	query := `
		SELECT w.watched_at,
		       ` + videoColumns + `, ` + ownerColumns + `
		FROM watch_history w
		JOIN videos v ON v.id = w.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE w.user_id = $1
		ORDER BY w.watched_at DESC, v.id DESC
		LIMIT $2 OFFSET $3
	`

	type row struct {
		videoWithOwner
		WatchedAt time.Time `db:"watched_at"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, userID, p.Limit, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list watch history: %w", err)
	}

	entries := make([]model.WatchHistoryEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, model.WatchHistoryEntry{
			WatchedAt: rows[i].WatchedAt,
			Video:     rows[i].toVideo(),
		})
	}

	return entries, total, nil
}

func (r *watchHistoryRepository) DeleteForVideo(ctx context.Context, videoID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM watch_history WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete watch history for video: %w", err)
	}
	return result.RowsAffected()
}

func (r *watchHistoryRepository) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM watch_history WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete watch history for user: %w", err)
	}
	return result.RowsAffected()
}
