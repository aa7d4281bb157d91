package model

import (
	"errors"
	"time"
)

// Playlist is an ordered, duplicate-free collection of videos.
type Playlist struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	OwnerID     int64     `db:"owner_id" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Owner  *UserSummary `db:"-" json:"owner,omitempty"`
	Videos []Video      `db:"-" json:"videos,omitempty"`
}

// PlaylistRequest is the request body for creating or updating a playlist.
type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var (
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrNotPlaylistOwner   = errors.New("not the playlist owner")
	ErrVideoAlreadyInList = errors.New("video already in playlist")
	ErrVideoNotInPlaylist = errors.New("video not in playlist")
)
