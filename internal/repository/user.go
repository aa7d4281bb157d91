package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vidtube/backend/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, full_name, password_hashed, avatar_url, avatar_key,
       cover_image_url, cover_image_key, refresh_token_hash, created_at, updated_at`

// Create inserts a new user. The unique indexes on lower(username) and
// lower(email) raise a constraint violation on races past the existence
// check; that surfaces as model.ErrUserExists.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, full_name, password_hashed, avatar_url, avatar_key,
		                   cover_image_url, cover_image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		strings.ToLower(u.Username),
		strings.ToLower(u.Email),
		u.FullName,
		u.PasswordHashed,
		u.AvatarURL,
		u.AvatarKey,
		u.CoverImageURL,
		u.CoverImageKey,
	)

	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	u.Username = strings.ToLower(u.Username)
	u.Email = strings.ToLower(u.Email)

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsernameOrEmail retrieves a user matching either identifier,
// case-insensitively. Empty arguments never match.
func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (LOWER(username) = LOWER($1) AND $1 <> '')
		   OR (LOWER(email) = LOWER($2) AND $2 <> '')
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// ExistsByUsernameOrEmail checks whether either identifier is taken.
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2)
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username, email)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, id int64, fullName, email string) (*model.User, error) {
	query := `
		UPDATE users
		SET full_name = COALESCE(NULLIF($2, ''), full_name),
		    email = COALESCE(NULLIF(LOWER($3), ''), email),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id, fullName, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, model.ErrUserExists
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHashed string) error {
	query := `UPDATE users SET password_hashed = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, passwordHashed)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id int64, url, key string) (*model.User, error) {
	query := `
		UPDATE users SET avatar_url = $2, avatar_key = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id, url, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id int64, url, key string) (*model.User, error) {
	query := `
		UPDATE users SET cover_image_url = $2, cover_image_key = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id, url, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update cover image: %w", err)
	}
	return &u, nil
}

// SetRefreshTokenHash overwrites the stored refresh credential without
// touching any other field. A nil hash clears it.
func (r *userRepository) SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// GetChannelProfile assembles the channel view in a single query.
// Counts use correlated subqueries (left-join semantics: zero when no
// subscriptions exist); is_subscribed uses EXISTS against the viewer.
func (r *userRepository) GetChannelProfile(ctx context.Context, username string, viewerID *int64) (*model.ChannelProfile, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url, u.created_at,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
		       EXISTS(
		           SELECT 1 FROM subscriptions s
		           WHERE s.channel_id = u.id AND s.subscriber_id = $2
		       ) AS is_subscribed
		FROM users u
		WHERE LOWER(u.username) = LOWER($1)
	`

	var viewer int64 = 0
	if viewerID != nil {
		viewer = *viewerID
	}

	var p model.ChannelProfile
	err := r.db.GetContext(ctx, &p, query, username, viewer)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return &p, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
