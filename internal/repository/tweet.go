package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vidtube/backend/internal/model"
)

type tweetRepository struct {
	db *sqlx.DB
}

func NewTweetRepository(db *sqlx.DB) TweetRepository {
	return &tweetRepository{db: db}
}

type tweetWithOwner struct {
	model.Tweet
	OID        int64   `db:"o_id"`
	OUsername  string  `db:"o_username"`
	OFullName  string  `db:"o_full_name"`
	OAvatarURL *string `db:"o_avatar_url"`
}

func (r *tweetRepository) Create(ctx context.Context, t *model.Tweet) error {
	query := `
		INSERT INTO tweets (content, owner_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, t.Content, t.OwnerID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tweet: %w", err)
	}
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	query := `SELECT id, content, owner_id, created_at, updated_at FROM tweets WHERE id = $1`

	var t model.Tweet
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTweetNotFound
		}
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}
	return &t, nil
}

// ListByUser returns a user's tweets oldest-first with joined owner details
// (strict join).
func (r *tweetRepository) ListByUser(ctx context.Context, userID int64) ([]model.Tweet, error) {
	query := `
		SELECT t.id, t.content, t.owner_id, t.created_at, t.updated_at,
		       u.id AS o_id, u.username AS o_username, u.full_name AS o_full_name,
		       u.avatar_url AS o_avatar_url
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at ASC, t.id ASC
	`

	var rows []tweetWithOwner
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}

	tweets := make([]model.Tweet, 0, len(rows))
	for i := range rows {
		t := rows[i].Tweet
		t.Owner = &model.UserSummary{
			ID:        rows[i].OID,
			Username:  rows[i].OUsername,
			FullName:  rows[i].OFullName,
			AvatarURL: rows[i].OAvatarURL,
		}
		tweets = append(tweets, t)
	}

	return tweets, nil
}

func (r *tweetRepository) Update(ctx context.Context, id int64, content string) (*model.Tweet, error) {
	query := `
		UPDATE tweets SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, content, owner_id, created_at, updated_at
	`
	var t model.Tweet
	err := r.db.GetContext(ctx, &t, query, id, content)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTweetNotFound
		}
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}
	return &t, nil
}

func (r *tweetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrTweetNotFound
	}
	return nil
}

func (r *tweetRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tweets WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tweets for owner: %w", err)
	}
	return result.RowsAffected()
}
