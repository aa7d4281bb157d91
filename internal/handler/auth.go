package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// AuthHandler groups account and session endpoints under /users.
type AuthHandler struct {
	userService  *service.UserService
	authService  *service.AuthService
	mediaService *service.MediaService
	config       *config.Config
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, authService *service.AuthService, mediaService *service.MediaService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		authService:  authService,
		mediaService: mediaService,
		config:       cfg,
	}
}

// Register handles multipart sign-up with optional avatar and cover uploads.
// POST /users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	maxFormSize := int64(2*model.MaxImageSizeBytes) + 1024*1024 // two images plus form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequest(w, "Uploaded images exceed the size limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.RegisterRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Password: r.FormValue("password"),
	}

	if upload, ok := uploadFormFile(w, r, "avatar", h.mediaService.UploadAvatar); !ok {
		return
	} else if upload != nil {
		req.AvatarURL = &upload.URL
		req.AvatarKey = &upload.Key
	}
	if upload, ok := uploadFormFile(w, r, "coverImage", h.mediaService.UploadCoverImage); !ok {
		return
	} else if upload != nil {
		req.CoverImageURL = &upload.URL
		req.CoverImageKey = &upload.Key
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrUserExists) {
			httputil.WriteConflict(w, "Username or email already exists")
			return
		}
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteCreated(w, user, "User registered successfully")
}

// Login authenticates by username or email and issues the token pair.
// POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" && req.Email == "" {
		httputil.WriteBadRequest(w, "Username or email is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	tokenPair, err := h.authService.GenerateTokenPair(r.Context(), user.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to generate tokens")
		return
	}

	setAuthCookies(w, tokenPair, h.config)
	httputil.WriteOK(w, model.LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, "User logged in successfully")
}

// Refresh rotates the token pair. The refresh token may arrive as a cookie
// or in the request body.
// POST /users/refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req model.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		httputil.WriteUnauthorized(w, "Refresh token is required")
		return
	}

	tokenPair, _, err := h.authService.RefreshTokens(r.Context(), refreshToken)
	if err != nil {
		httputil.WriteUnauthorized(w, "Invalid or expired refresh token")
		return
	}

	setAuthCookies(w, tokenPair, h.config)
	httputil.WriteOK(w, tokenPair, "Access token refreshed")
}

// Logout destroys the refresh credential and clears the cookies.
// POST /users/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.authService.Revoke(r.Context(), userID); err != nil {
		httputil.WriteInternalError(w, "Failed to log out")
		return
	}

	clearAuthCookies(w)
	httputil.WriteOK(w, nil, "User logged out successfully")
}

// CurrentUser returns the authenticated user's account.
// GET /users/current-user
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteOK(w, user, "Current user fetched successfully")
}

// ChangePassword verifies the old password before setting the new one.
// POST /users/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	err := h.userService.ChangePassword(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			httputil.WriteUnauthorized(w, "Old password is incorrect")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			httputil.WriteBadRequest(w, err.Error())
		}
		return
	}

	httputil.WriteOK(w, nil, "Password changed successfully")
}
