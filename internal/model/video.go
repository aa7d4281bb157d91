package model

import (
	"errors"
	"time"
)

// Video represents an uploaded video with its media references.
type Video struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	VideoURL     string    `db:"video_url" json:"videoFile"`
	VideoKey     string    `db:"video_key" json:"-"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail"`
	ThumbnailKey *string   `db:"thumbnail_key" json:"-"`
	Duration     float64   `db:"duration" json:"duration"` // seconds
	Format       string    `db:"format" json:"format"`
	Views        int64     `db:"views" json:"views"`
	IsPublished  bool      `db:"is_published" json:"isPublished"`
	OwnerID      int64     `db:"owner_id" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	// Owner is populated by joined listings; nil when the query did not join.
	Owner *UserSummary `db:"-" json:"owner,omitempty"`
}

// VideoFilter narrows a video listing. A nil OwnerID means all owners.
// PublishedOnly is the public-listing restriction; ownership-scoped
// listings clear it.
type VideoFilter struct {
	Query         string
	OwnerID       *int64
	PublishedOnly bool
}

// UpdateVideoRequest carries the mutable video fields. Empty strings mean
// "leave unchanged"; at least one field must be set.
type UpdateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// WatchHistoryEntry is a watch-history row joined with its video and the
// video's owner, most-recent-first.
type WatchHistoryEntry struct {
	WatchedAt time.Time `db:"watched_at" json:"watchedAt"`
	Video     Video     `json:"video"`
}

// ChannelStats is the dashboard aggregate for a channel.
type ChannelStats struct {
	TotalVideos      int   `db:"total_videos" json:"totalVideos"`
	TotalViews       int64 `db:"total_views" json:"totalViews"`
	TotalSubscribers int   `db:"total_subscribers" json:"totalSubscribers"`
	TotalLikes       int   `db:"total_likes" json:"totalLikes"`
}

var (
	// ErrVideoNotFound is returned when a video cannot be found
	ErrVideoNotFound = errors.New("video not found")

	// ErrNotVideoOwner is returned when a mutation is attempted by a non-owner
	ErrNotVideoOwner = errors.New("not the video owner")
)
