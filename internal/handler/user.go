package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// UserHandler groups profile endpoints under /users.
type UserHandler struct {
	userService  *service.UserService
	mediaService *service.MediaService
}

func NewUserHandler(userService *service.UserService, mediaService *service.MediaService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		mediaService: mediaService,
	}
}

// UpdateAccount edits full name and/or email.
// PATCH /users/update-account
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req model.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateAccount(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrUserExists):
			httputil.WriteConflict(w, "Email already in use")
		default:
			httputil.WriteBadRequest(w, err.Error())
		}
		return
	}

	httputil.WriteOK(w, user, "Account updated successfully")
}

// UpdateAvatar replaces the avatar image.
// PATCH /users/avatar
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.mediaService.UploadAvatar, h.userService.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage replaces the cover image.
// PATCH /users/cover-image
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.mediaService.UploadCoverImage, h.userService.UpdateCoverImage, "Cover image updated successfully")
}

// updateImage is the shared flow for both profile images: upload the new
// asset, swap the stored reference, then delete the superseded object.
func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	upload uploadFn,
	apply func(ctx context.Context, userID int64, url, key string) (*model.User, string, error),
	message string,
) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		httputil.WriteBadRequest(w, field+" file is required")
		return
	}
	defer file.Close()

	result, err := upload(r.Context(), file, header)
	if err != nil {
		writeUploadError(w, field, err)
		return
	}

	user, oldKey, err := apply(r.Context(), userID, result.URL, result.Key)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to update "+field)
		return
	}

	// The replaced asset is deleted best-effort; an orphan object is
	// harmless and cheap compared to failing the request.
	if oldKey != "" {
		if err := h.mediaService.DeleteObject(r.Context(), oldKey); err != nil {
			log.Printf("[User] delete old %s failed: key=%s err=%v", field, oldKey, err)
		}
	}

	httputil.WriteOK(w, user, message)
}

// DeleteAccount removes the authenticated user. The row delete is
// synchronous; the user's content is cleared asynchronously by the
// cleanup worker.
// DELETE /users/account
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	keys, err := h.userService.DeleteAccount(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to delete account")
		return
	}

	for _, key := range keys {
		if err := h.mediaService.DeleteObject(r.Context(), key); err != nil {
			log.Printf("[User] delete profile image failed: key=%s err=%v", key, err)
		}
	}

	clearAuthCookies(w)
	httputil.WriteOK(w, nil, "Account deleted successfully")
}

// ChannelProfile returns the public channel page for a username.
// GET /users/c/{username}
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	profile, err := h.userService.GetChannelProfile(r.Context(), username, middleware.UserIDPtr(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "Channel not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get channel profile")
		return
	}

	httputil.WriteOK(w, profile, "Channel profile fetched successfully")
}

// WatchHistory returns one page of the viewer's watch history.
// GET /users/history
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	p := pagination.FromQuery(r.URL.Query())

	entries, meta, err := h.userService.GetWatchHistory(r.Context(), userID, p)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get watch history")
		return
	}

	httputil.WriteOK(w, map[string]interface{}{
		"history":    entries,
		"pagination": meta,
	}, "Watch history fetched successfully")
}
