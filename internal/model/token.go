package model

import "errors"

// TokenPair holds both credentials returned after login/refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // seconds until the access token expires
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// RefreshRequest is the request body for POST /users/refresh-token.
// The credential may also arrive via the refresh_token cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

var (
	// ErrRefreshTokenInvalid covers a missing, malformed, expired, or
	// mismatched refresh credential. Rotation rejects all of these the
	// same way so callers cannot probe which check failed.
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")
)
