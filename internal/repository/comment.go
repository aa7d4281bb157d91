package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

type commentWithOwner struct {
	model.Comment
	OID        int64   `db:"o_id"`
	OUsername  string  `db:"o_username"`
	OFullName  string  `db:"o_full_name"`
	OAvatarURL *string `db:"o_avatar_url"`
}

func (row *commentWithOwner) toComment() model.Comment {
	c := row.Comment
	c.Owner = &model.UserSummary{
		ID:        row.OID,
		Username:  row.OUsername,
		FullName:  row.OFullName,
		AvatarURL: row.OAvatarURL,
	}
	return c
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (content, video_id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, c.Content, c.VideoID, c.OwnerID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `
		SELECT id, content, video_id, owner_id, created_at, updated_at
		FROM comments WHERE id = $1
	`
	var c model.Comment
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

// ListByVideo pages comments newest-first with joined owner details.
// Strict join: a comment whose owner row is missing is dropped.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID int64, p pagination.Params) ([]model.Comment, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM comments WHERE video_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, videoID); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT c.id, c.content, c.video_id, c.owner_id, c.created_at, c.updated_at,
		       u.id AS o_id, u.username AS o_username, u.full_name AS o_full_name,
		       u.avatar_url AS o_avatar_url
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3
	`

	var rows []commentWithOwner
	if err := r.db.SelectContext(ctx, &rows, query, videoID, p.Limit, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]model.Comment, 0, len(rows))
	for i := range rows {
		comments = append(comments, rows[i].toComment())
	}

	return comments, total, nil
}

func (r *commentRepository) Update(ctx context.Context, id int64, content string) (*model.Comment, error) {
	query := `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, content, video_id, owner_id, created_at, updated_at
	`
	var c model.Comment
	err := r.db.GetContext(ctx, &c, query, id, content)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments for video: %w", err)
	}
	return result.RowsAffected()
}

func (r *commentRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments for owner: %w", err)
	}
	return result.RowsAffected()
}
