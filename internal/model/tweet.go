package model

import (
	"errors"
	"time"
)

const MaxTweetLength = 280

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        int64     `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Owner *UserSummary `db:"-" json:"owner,omitempty"`
}

// TweetRequest is the request body for creating or updating a tweet.
type TweetRequest struct {
	Content string `json:"content"`
}

var (
	ErrTweetNotFound = errors.New("tweet not found")
	ErrNotTweetOwner = errors.New("not the tweet owner")
)
