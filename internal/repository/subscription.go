package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vidtube/backend/internal/model"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Insert subscribes a user to a channel. The unique (subscriber, channel)
// constraint plus ON CONFLICT DO NOTHING make concurrent duplicate toggles
// benign: the loser simply reports no insert.
func (r *subscriptionRepository) Insert(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to create subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	result, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

type subscriptionUserRow struct {
	SubscribedAt time.Time `db:"subscribed_at"`
	UID          int64     `db:"u_id"`
	UUsername    string    `db:"u_username"`
	UFullName    string    `db:"u_full_name"`
	UAvatarURL   *string   `db:"u_avatar_url"`
}

func (row *subscriptionUserRow) summary() model.UserSummary {
	return model.UserSummary{
		ID:        row.UID,
		Username:  row.UUsername,
		FullName:  row.UFullName,
		AvatarURL: row.UAvatarURL,
	}
}

// ListSubscribers returns a channel's subscribers newest-first with joined
// user details (strict join).
func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID int64) ([]model.Subscriber, error) {
	query := `
		SELECT s.created_at AS subscribed_at,
		       u.id AS u_id, u.username AS u_username, u.full_name AS u_full_name,
		       u.avatar_url AS u_avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`

	var rows []subscriptionUserRow
	if err := r.db.SelectContext(ctx, &rows, query, channelID); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	subscribers := make([]model.Subscriber, 0, len(rows))
	for i := range rows {
		subscribers = append(subscribers, model.Subscriber{
			SubscribedAt: rows[i].SubscribedAt,
			User:         rows[i].summary(),
		})
	}

	return subscribers, nil
}

// ListSubscribed returns the channels a user subscribes to, newest-first
// with joined channel details (strict join).
func (r *subscriptionRepository) ListSubscribed(ctx context.Context, subscriberID int64) ([]model.SubscribedChannel, error) {
	query := `
		SELECT s.created_at AS subscribed_at,
		       u.id AS u_id, u.username AS u_username, u.full_name AS u_full_name,
		       u.avatar_url AS u_avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`

	var rows []subscriptionUserRow
	if err := r.db.SelectContext(ctx, &rows, query, subscriberID); err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}

	channels := make([]model.SubscribedChannel, 0, len(rows))
	for i := range rows {
		channels = append(channels, model.SubscribedChannel{
			SubscribedAt: rows[i].SubscribedAt,
			Channel:      rows[i].summary(),
		})
	}

	return channels, nil
}

// DeleteForUser removes every subscription a deleted user participates in,
// on either side.
func (r *subscriptionRepository) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 OR channel_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete subscriptions for user: %w", err)
	}
	return result.RowsAffected()
}
