package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vidtube/backend/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// targetColumn maps a like target kind to its column. Callers pass one of
// the model.LikeTarget constants; anything else is a programming error.
func targetColumn(target model.LikeTarget) (string, error) {
	switch target {
	case model.LikeTargetVideo:
		return "video_id", nil
	case model.LikeTargetComment:
		return "comment_id", nil
	case model.LikeTargetTweet:
		return "tweet_id", nil
	}
	return "", fmt.Errorf("unknown like target %q", target)
}

// Insert creates a like unless the (owner, target) pair already exists.
// The partial unique index makes ON CONFLICT DO NOTHING the race guard:
// a concurrent duplicate insert affects zero rows instead of failing.
func (r *likeRepository) Insert(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error) {
	col, err := targetColumn(target)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		INSERT INTO likes (%s, owner_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s, owner_id) WHERE %s IS NOT NULL DO NOTHING
	`, col, col, col)

	result, err := r.db.ExecContext(ctx, query, targetID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Delete removes a like, reporting whether a row existed.
func (r *likeRepository) Delete(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error) {
	col, err := targetColumn(target)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`DELETE FROM likes WHERE %s = $1 AND owner_id = $2`, col)
	result, err := r.db.ExecContext(ctx, query, targetID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListLikedVideos assembles the liked-videos view: like -> video -> video
// owner, both joins strict, newest like first. Likes whose video has been
// deleted are dropped here, so a lagging cleanup is invisible to readers.
func (r *likeRepository) ListLikedVideos(ctx context.Context, ownerID int64) ([]model.LikedVideo, error) {
	query := `
		SELECT l.created_at AS liked_at,
		       ` + videoColumns + `, ` + ownerColumns + `
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.owner_id = $1 AND l.video_id IS NOT NULL
		ORDER BY l.created_at DESC, l.id DESC
	`

	type row struct {
		videoWithOwner
		LikedAt time.Time `db:"liked_at"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}

	liked := make([]model.LikedVideo, 0, len(rows))
	for i := range rows {
		liked = append(liked, model.LikedVideo{
			LikedAt: rows[i].LikedAt,
			Video:   rows[i].toVideo(),
		})
	}

	return liked, nil
}

// DeleteForTarget removes all likes pointing at a deleted entity.
func (r *likeRepository) DeleteForTarget(ctx context.Context, target model.LikeTarget, targetID int64) (int64, error) {
	col, err := targetColumn(target)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM likes WHERE %s = $1`, col), targetID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes for target: %w", err)
	}
	return result.RowsAffected()
}

// DeleteForVideoComments removes likes on every comment of a video. Runs
// before the comments are deleted so the subquery still resolves them.
func (r *likeRepository) DeleteForVideoComments(ctx context.Context, videoID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM likes
		WHERE comment_id IN (SELECT id FROM comments WHERE video_id = $1)
	`, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes for video comments: %w", err)
	}
	return result.RowsAffected()
}

// DeleteForOwnerComments removes likes on every comment a deleted user
// wrote. Runs before those comments are deleted.
func (r *likeRepository) DeleteForOwnerComments(ctx context.Context, ownerID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM likes
		WHERE comment_id IN (SELECT id FROM comments WHERE owner_id = $1)
	`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes for owner comments: %w", err)
	}
	return result.RowsAffected()
}

// DeleteForOwnerTweets removes likes on every tweet a deleted user posted.
// Runs before those tweets are deleted.
func (r *likeRepository) DeleteForOwnerTweets(ctx context.Context, ownerID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM likes
		WHERE tweet_id IN (SELECT id FROM tweets WHERE owner_id = $1)
	`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes for owner tweets: %w", err)
	}
	return result.RowsAffected()
}

func (r *likeRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes for owner: %w", err)
	}
	return result.RowsAffected()
}
