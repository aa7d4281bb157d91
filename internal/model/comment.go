package model

import (
	"errors"
	"time"
)

const MaxCommentLength = 2000

// Comment represents a comment on a video.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	VideoID   int64     `db:"video_id" json:"videoId"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Owner *UserSummary `db:"-" json:"owner,omitempty"`
}

// CreateCommentRequest is the request body for POST /comments/{videoId}
type CreateCommentRequest struct {
	Content string `json:"content"`
}

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the comment owner")
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content too long")
)
