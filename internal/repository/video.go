package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

const videoColumns = `v.id, v.title, v.description, v.video_url, v.video_key, v.thumbnail_url,
       v.thumbnail_key, v.duration, v.format, v.views, v.is_published, v.owner_id,
       v.created_at, v.updated_at`

const ownerColumns = `u.id AS o_id, u.username AS o_username, u.full_name AS o_full_name,
       u.avatar_url AS o_avatar_url`

// videoWithOwner flattens the joined owner columns next to the video row.
type videoWithOwner struct {
	model.Video
	OID        int64   `db:"o_id"`
	OUsername  string  `db:"o_username"`
	OFullName  string  `db:"o_full_name"`
	OAvatarURL *string `db:"o_avatar_url"`
}

func (row *videoWithOwner) toVideo() model.Video {
	v := row.Video
	v.Owner = &model.UserSummary{
		ID:        row.OID,
		Username:  row.OUsername,
		FullName:  row.OFullName,
		AvatarURL: row.OAvatarURL,
	}
	return v
}

// sortColumns whitelists the sortBy parameter. Anything else falls back
// to created_at.
var sortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (title, description, video_url, video_key, thumbnail_url, thumbnail_key,
		                    duration, format, is_published, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, views, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		v.Title,
		v.Description,
		v.VideoURL,
		v.VideoKey,
		v.ThumbnailURL,
		v.ThumbnailKey,
		v.Duration,
		v.Format,
		v.IsPublished,
		v.OwnerID,
	)

	if err := row.Scan(&v.ID, &v.Views, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1`

	var v model.Video
	err := r.db.GetContext(ctx, &v, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &v, nil
}

// GetByIDWithOwner fetches a video plus its owner summary. Strict join:
// a video whose owner row is gone reads as not-found.
func (r *videoRepository) GetByIDWithOwner(ctx context.Context, id int64) (*model.Video, error) {
	query := `
		SELECT ` + videoColumns + `, ` + ownerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	var row videoWithOwner
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video with owner: %w", err)
	}

	v := row.toVideo()
	return &v, nil
}

// List assembles one page of the video listing view: filter, owner join
// (strict), whitelisted sort with id tiebreaker, and a matching total count.
func (r *videoRepository) List(ctx context.Context, filter model.VideoFilter, p pagination.Params) ([]model.Video, int, error) {
	where := "1=1"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.PublishedOnly {
		where += " AND v.is_published = TRUE"
	}
	if filter.OwnerID != nil {
		where += " AND v.owner_id = " + arg(*filter.OwnerID)
	}
	if filter.Query != "" {
		// Case-insensitive substring match, OR across title and description
		ph := arg("%" + filter.Query + "%")
		where += fmt.Sprintf(" AND (v.title ILIKE %s OR v.description ILIKE %s)", ph, ph)
	}

	orderBy, ok := sortColumns[p.SortBy]
	if !ok {
		orderBy = "v.created_at"
	}
	dir := "DESC"
	if p.SortType == "asc" {
		dir = "ASC"
	}

	countQuery := `SELECT COUNT(*) FROM videos v WHERE ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	// id tiebreaker keeps the sort stable across pages
	listQuery := fmt.Sprintf(`
		SELECT `+videoColumns+`, `+ownerColumns+`
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE %s
		ORDER BY %s %s, v.id %s
		LIMIT %s OFFSET %s
	`, where, orderBy, dir, dir, arg(p.Limit), arg(p.Offset()))

	var rows []videoWithOwner
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}

	videos := make([]model.Video, 0, len(rows))
	for i := range rows {
		videos = append(videos, rows[i].toVideo())
	}

	return videos, total, nil
}

func (r *videoRepository) Update(ctx context.Context, v *model.Video) error {
	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail_url = $4, thumbnail_key = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		v.ID, v.Title, v.Description, v.ThumbnailURL, v.ThumbnailKey,
	).Scan(&v.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrVideoNotFound
		}
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

func (r *videoRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	query := `UPDATE videos SET is_published = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, published)
	if err != nil {
		return fmt.Errorf("failed to set publish status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// DeleteByOwner removes all of a deleted user's uploads and returns the
// removed IDs. The caller fans out per-video cleanup for each.
func (r *videoRepository) DeleteByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`DELETE FROM videos WHERE owner_id = $1 RETURNING id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete videos for owner: %w", err)
	}
	return ids, nil
}

// ChannelStats aggregates the dashboard numbers in one round trip.
// Likes count joins through videos (strict) so likes on deleted videos
// never inflate the total.
func (r *videoRepository) ChannelStats(ctx context.Context, ownerID int64) (*model.ChannelStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM videos v WHERE v.owner_id = $1) AS total_videos,
			(SELECT COALESCE(SUM(v.views), 0) FROM videos v WHERE v.owner_id = $1) AS total_views,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = $1) AS total_subscribers,
			(SELECT COUNT(*)
			 FROM likes l
			 JOIN videos v ON v.id = l.video_id
			 WHERE v.owner_id = $1) AS total_likes
	`

	var stats model.ChannelStats
	if err := r.db.GetContext(ctx, &stats, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}

	return &stats, nil
}
