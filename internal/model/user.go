package model

import (
	"errors"
	"time"
)

// User represents a user in the system
type User struct {
	ID               int64     `db:"id" json:"id"`
	Username         string    `db:"username" json:"username"`
	Email            string    `db:"email" json:"email"`
	FullName         string    `db:"full_name" json:"fullName"`
	PasswordHashed   string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	AvatarURL        *string   `db:"avatar_url" json:"avatar"`
	AvatarKey        *string   `db:"avatar_key" json:"-"`
	CoverImageURL    *string   `db:"cover_image_url" json:"coverImage"`
	CoverImageKey    *string   `db:"cover_image_key" json:"-"`
	RefreshTokenHash *string   `db:"refresh_token_hash" json:"-"` // single active refresh credential
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the owner projection joined into composite views
// (video listings, comments, subscriber lists).
type UserSummary struct {
	ID        int64   `db:"id" json:"id"`
	Username  string  `db:"username" json:"username"`
	FullName  string  `db:"full_name" json:"fullName"`
	AvatarURL *string `db:"avatar_url" json:"avatar"`
}

// ChannelProfile is the denormalized channel view with derived counts.
type ChannelProfile struct {
	ID              int64     `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	FullName        string    `db:"full_name" json:"fullName"`
	Email           string    `db:"email" json:"email"`
	AvatarURL       *string   `db:"avatar_url" json:"avatar"`
	CoverImageURL   *string   `db:"cover_image_url" json:"coverImage"`
	SubscriberCount int       `db:"subscriber_count" json:"subscribersCount"`
	SubscribedTo    int       `db:"subscribed_to_count" json:"channelsSubscribedToCount"`
	IsSubscribed    bool      `db:"is_subscribed" json:"isSubscribed"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username      string
	Email         string
	FullName      string
	Password      string
	AvatarURL     *string
	AvatarKey     *string
	CoverImageURL *string
	CoverImageKey *string
}

// LoginRequest represents the data needed to log in.
// Either username or email identifies the account.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateAccountRequest carries the mutable profile fields.
type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// ChangePasswordRequest is the request body for POST /users/change-password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when a username or email is already taken
	ErrUserExists = errors.New("username or email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
