package model

import (
	"errors"
	"time"
)

// LikeTarget names the kind of entity a like points at. A like row has
// exactly one target reference set.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like represents a single (owner, target) like relation.
type Like struct {
	ID        int64     `db:"id" json:"id"`
	VideoID   *int64    `db:"video_id" json:"videoId,omitempty"`
	CommentID *int64    `db:"comment_id" json:"commentId,omitempty"`
	TweetID   *int64    `db:"tweet_id" json:"tweetId,omitempty"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ToggleState reports the outcome of a toggle operation.
type ToggleState string

const (
	ToggleAdded   ToggleState = "added"
	ToggleRemoved ToggleState = "removed"
)

// ToggleResult is the response body for every toggle endpoint.
type ToggleResult struct {
	State ToggleState `json:"state"`
}

// LikedVideo is a liked-videos listing row: the like's timestamp plus the
// joined video and the video's owner.
type LikedVideo struct {
	LikedAt time.Time `db:"liked_at" json:"likedAt"`
	Video   Video     `json:"video"`
}

var (
	ErrLikeTargetNotFound = errors.New("like target not found")
)
