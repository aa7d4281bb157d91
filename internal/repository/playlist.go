package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vidtube/backend/internal/model"
)

type playlistRepository struct {
	db *sqlx.DB
}

func NewPlaylistRepository(db *sqlx.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

type playlistWithOwner struct {
	model.Playlist
	OID        int64   `db:"o_id"`
	OUsername  string  `db:"o_username"`
	OFullName  string  `db:"o_full_name"`
	OAvatarURL *string `db:"o_avatar_url"`
}

func (row *playlistWithOwner) toPlaylist() model.Playlist {
	p := row.Playlist
	p.Owner = &model.UserSummary{
		ID:        row.OID,
		Username:  row.OUsername,
		FullName:  row.OFullName,
		AvatarURL: row.OAvatarURL,
	}
	return p
}

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	query := `
		INSERT INTO playlists (name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, p.Name, p.Description, p.OwnerID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

// GetByID fetches a playlist with owner details and its videos in insertion
// order. Owner join is strict; entries whose video has been deleted are
// dropped from the video list.
func (r *playlistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	query := `
		SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		       u.id AS o_id, u.username AS o_username, u.full_name AS o_full_name,
		       u.avatar_url AS o_avatar_url
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`

	var row playlistWithOwner
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	playlist := row.toPlaylist()

	videosQuery := `
		SELECT ` + videoColumns + `
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = $1
		ORDER BY pv.position ASC
	`
	if err := r.db.SelectContext(ctx, &playlist.Videos, videosQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}

	return &playlist, nil
}

func (r *playlistRepository) ListByUser(ctx context.Context, userID int64) ([]model.Playlist, error) {
	query := `
		SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		       u.id AS o_id, u.username AS o_username, u.full_name AS o_full_name,
		       u.avatar_url AS o_avatar_url
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE p.owner_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`

	var rows []playlistWithOwner
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	playlists := make([]model.Playlist, 0, len(rows))
	for i := range rows {
		playlists = append(playlists, rows[i].toPlaylist())
	}

	return playlists, nil
}

func (r *playlistRepository) Update(ctx context.Context, id int64, name, description string) (*model.Playlist, error) {
	query := `
		UPDATE playlists
		SET name = COALESCE(NULLIF($2, ''), name),
		    description = $3,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, owner_id, created_at, updated_at
	`
	var p model.Playlist
	err := r.db.GetContext(ctx, &p, query, id, name, description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}
	return &p, nil
}

func (r *playlistRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrPlaylistNotFound
	}
	return nil
}

// AddVideo appends a video at the next position. The (playlist, video)
// primary key rejects duplicates.
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID int64) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
		VALUES ($1, $2,
		        (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_videos WHERE playlist_id = $1),
		        NOW())
	`
	_, err := r.db.ExecContext(ctx, query, playlistID, videoID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrVideoAlreadyInList
		}
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}
	return nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID int64) error {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`
	result, err := r.db.ExecContext(ctx, query, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrVideoNotInPlaylist
	}
	return nil
}

func (r *playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlist_videos WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove video from playlists: %w", err)
	}
	return result.RowsAffected()
}
